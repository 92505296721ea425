package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"ai-recipechat-be/internal/config"
	"ai-recipechat-be/internal/controller"
	"ai-recipechat-be/internal/pkg/logger"
	"ai-recipechat-be/internal/repository/history"
	"ai-recipechat-be/internal/repository/implementation"
	"ai-recipechat-be/internal/repository/memory"
	"ai-recipechat-be/internal/service"
	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/generate"
	"ai-recipechat-be/pkg/chef/intent"
	"ai-recipechat-be/pkg/chef/response"
	"ai-recipechat-be/pkg/chef/search"
	"ai-recipechat-be/pkg/chef/workflow"
	"ai-recipechat-be/pkg/embedding"
	pktEvents "ai-recipechat-be/pkg/events"
	"ai-recipechat-be/pkg/llm/factory"
	pktNats "ai-recipechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const embedRecipeTopic = "EMBED_RECIPE"

type Container struct {
	// Controllers
	ChefController controller.IChefController

	// Background Services (Exposed for main.go to run)
	IndexerService service.IIndexerService

	// System Logger (Exposed for flushing on shutdown)
	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		base := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		embeddingProvider = embedding.WithRetry(base, uint(cfg.Ai.EmbeddingRetries), 30*time.Second)
		sysLogger.Info("BOOTSTRAP", "Embedding provider ready", map[string]interface{}{
			"provider": "ollama",
			"model":    cfg.Ai.EmbeddingModel,
		})
	} else {
		sysLogger.Warn("BOOTSTRAP", "No embedding provider configured, text-only retrieval", nil)
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, llmBaseURL, cfg.Ai.LLMAPIKey)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable", map[string]interface{}{"error": err.Error()})
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
		natsSub = nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Invalid Redis URL, using direct addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Redis unreachable, turn history disabled", map[string]interface{}{"error": err.Error()})
	}

	// 5. Repositories
	recipeRepo := implementation.NewRecipeRepository(db)
	sessionRepo := memory.NewSessionRepository()
	turnRepo := history.NewRedisTurnRepository(
		rdb,
		cfg.Session.RedisPrefix,
		cfg.Session.MaxTurns,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
	)

	// Generated recipes are persisted without a vector; the indexer worker
	// embeds them off the request path.
	gateway := service.NewRecipeGateway(recipeRepo, nil)

	// 6. Pipeline Components
	dict := extract.DefaultDictionary()
	extractor := extract.NewExtractor(dict, cfg.Safety.AllergyTriggers, stdLogger)
	classifier := intent.NewClassifier(stdLogger)

	rankCfg := search.RankConfig{
		VectorWeight: cfg.Search.VectorWeight,
		TextWeight:   cfg.Search.TextWeight,
		MinScore:     cfg.Search.MinScore,
		SafetyFirst:  cfg.Search.SafetyFirst,
	}
	backend := search.NewBreakerBackend(gateway, stdLogger)
	retriever := search.NewEngine(backend, embeddingProvider, dict, rankCfg, stdLogger)
	retriever.SetTopK(cfg.Search.TopK)

	generator := generate.NewEngine(llmProvider, gateway, stdLogger)
	composer := response.NewComposer(extractor, stdLogger)

	orchestrator := workflow.NewOrchestrator(
		extractor,
		classifier,
		retriever,
		generator,
		composer,
		llmProvider,
		stdLogger,
	)

	// 7. Services
	publisherService := service.NewPublisherService(embedRecipeTopic, pubSub)
	indexerService := service.NewIndexerService(pubSub, embedRecipeTopic, recipeRepo, embeddingProvider)

	chefService := service.NewChefService(
		orchestrator,
		sessionRepo,
		turnRepo,
		publisherService,
		natsPub,
		stdLogger,
	)

	// Audit trail: log every generated recipe that lands on the bus.
	if natsSub != nil {
		err := natsSub.Subscribe("events."+pktEvents.TypeRecipeGenerated, "recipe-audit",
			func(ctx context.Context, event pktEvents.Event) error {
				sysLogger.Info("AUDIT", "Recipe generated", event.Payload())
				return nil
			})
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Audit subscription failed", map[string]interface{}{"error": err.Error()})
		}
	}

	// 8. Controllers
	return &Container{
		ChefController: controller.NewChefController(chefService),
		IndexerService: indexerService,
		SysLogger:      sysLogger,
	}
}
