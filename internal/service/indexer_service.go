package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-recipechat-be/internal/dto"
	"ai-recipechat-be/internal/repository/contract"
	"ai-recipechat-be/internal/repository/specification"
	"ai-recipechat-be/pkg/embedding"
	"ai-recipechat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

// indexerService embeds recipes off the request path. Generation persists the
// row immediately; this worker fills in the vector so the recipe becomes
// reachable through hybrid search.
type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	recipes           contract.RecipeRepository
	embeddingProvider embedding.Provider
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	recipes contract.RecipeRepository,
	embeddingProvider embedding.Provider,
) IIndexerService {
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		recipes:           recipes,
		embeddingProvider: embeddingProvider,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	if is.embeddingProvider == nil {
		msg.Ack()
		return
	}

	var payload dto.PublishEmbedRecipeMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	recipe, err := is.recipes.FindOne(ctx, specification.ByID{ID: payload.RecipeId})
	if err != nil {
		log.Printf("[ERROR] Failed to get recipe %s: %v", payload.RecipeId, err)
		msg.Nack()
		return
	}
	if recipe == nil {
		log.Printf("[ERROR] Recipe not found: %s", payload.RecipeId)
		msg.Ack() // Recipe deleted? Ack.
		return
	}

	document := recipe.Name + "\n" + recipe.Description
	for _, ing := range recipe.Ingredients {
		document += "\n" + ing
	}

	// Guard against oversized documents: embed the leading chunk only.
	chunks := utils.SplitText(document, 1500, 200)

	vector, err := is.embeddingProvider.Embed(ctx, chunks[0])
	if err != nil {
		log.Printf("[ERROR] Failed to embed recipe %s: %v", payload.RecipeId, err)
		msg.Nack()
		return
	}

	recipe.Embedding = vector
	if err := is.recipes.Update(ctx, recipe); err != nil {
		log.Printf("[ERROR] Failed to store embedding for recipe %s: %v", payload.RecipeId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Recipe %s embedded and indexed", payload.RecipeId)
	msg.Ack()
}
