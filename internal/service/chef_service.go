package service

import (
	"context"
	"log"
	"time"

	"ai-recipechat-be/internal/dto"
	"ai-recipechat-be/internal/repository/history"
	"ai-recipechat-be/internal/repository/memory"
	"ai-recipechat-be/pkg/chef/state"
	"ai-recipechat-be/pkg/chef/workflow"
	"ai-recipechat-be/pkg/events"
	pktNats "ai-recipechat-be/pkg/nats"
	"ai-recipechat-be/pkg/store"

	"github.com/google/uuid"
)

type IChefService interface {
	Chat(ctx context.Context, userID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ChatStream(ctx context.Context, userID string, req *dto.ChatRequest) <-chan workflow.StreamEvent
	History(ctx context.Context, sessionID string, limit int) (*dto.GetHistoryResponse, error)
}

type chefService struct {
	orchestrator *workflow.Orchestrator
	sessions     *memory.SessionRepository
	turns        *history.RedisTurnRepository
	publisher    IPublisherService
	natsPub      *pktNats.Publisher
	logger       *log.Logger
}

// NewChefService wires the conversation entry point. turns, publisher, and
// natsPub are optional; a nil value disables that side channel.
func NewChefService(
	orchestrator *workflow.Orchestrator,
	sessions *memory.SessionRepository,
	turns *history.RedisTurnRepository,
	publisher IPublisherService,
	natsPub *pktNats.Publisher,
	logger *log.Logger,
) IChefService {
	return &chefService{
		orchestrator: orchestrator,
		sessions:     sessions,
		turns:        turns,
		publisher:    publisher,
		natsPub:      natsPub,
		logger:       logger,
	}
}

// Chat runs one full turn synchronously.
func (s *chefService) Chat(ctx context.Context, userID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	session := s.loadSession(req.SessionId, userID)
	st := s.buildState(userID, req)

	s.orchestrator.Run(ctx, st, session, nil)

	s.finishTurn(ctx, st, session)
	return s.toResponse(st), nil
}

// ChatStream runs the same turn but hands back the progress stream. The
// returned channel closes after the terminal chunk; session bookkeeping
// happens in the background run.
func (s *chefService) ChatStream(ctx context.Context, userID string, req *dto.ChatRequest) <-chan workflow.StreamEvent {
	session := s.loadSession(req.SessionId, userID)
	st := s.buildState(userID, req)

	emitter := workflow.NewEmitter(16, ctx.Done())

	go func() {
		s.orchestrator.Run(ctx, st, session, emitter)
		s.finishTurn(ctx, st, session)
	}()

	return emitter.Events()
}

func (s *chefService) History(ctx context.Context, sessionID string, limit int) (*dto.GetHistoryResponse, error) {
	res := &dto.GetHistoryResponse{SessionId: sessionID, Turns: []dto.TurnDTO{}}
	if s.turns == nil {
		return res, nil
	}

	turns, err := s.turns.Recent(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for _, t := range turns {
		res.Turns = append(res.Turns, dto.TurnDTO{
			Query:     t.Query,
			Response:  t.Response,
			RecipeId:  t.RecipeID,
			Timestamp: t.Timestamp,
		})
	}
	return res, nil
}

func (s *chefService) loadSession(sessionID, userID string) *store.Session {
	if session, found := s.sessions.Get(sessionID); found {
		return session
	}
	session := &store.Session{ID: sessionID, UserID: userID}
	s.sessions.Save(session)
	return session
}

func (s *chefService) buildState(userID string, req *dto.ChatRequest) *state.GraphState {
	st := state.New(req.Query, userID, req.SessionId)
	st.Allergies = req.Allergies
	st.Profile = store.UserProfile{
		Beginner:        req.Beginner,
		TimeConstrained: req.TimeConstrained,
		HasAllergies:    len(req.Allergies) > 0,
	}
	return st
}

// finishTurn updates session context, appends the turn to the bounded history,
// and publishes domain events. All side channels are best-effort.
func (s *chefService) finishTurn(ctx context.Context, st *state.GraphState, session *store.Session) {
	session.LastQuery = st.Query
	session.LastIntent = string(st.Intent.Primary)
	session.LastRespondAt = time.Now()

	// Fresh slice, never a truncate-in-place: the previous slice may still be
	// referenced by the snapshot another request loaded.
	entities := make([]string, 0, len(st.Entities))
	for _, ent := range st.Entities {
		entities = append(entities, ent.Value)
	}
	session.LastEntities = entities

	shown := shownRecipe(st)
	if shown != nil {
		session.LastRecipe = shown
	}
	s.sessions.Save(session)

	recipeID := ""
	if shown != nil {
		recipeID = shown.ID
	}

	if s.turns != nil {
		turn := &store.ConversationTurn{
			Query:     st.Query,
			Response:  st.Response,
			Entities:  session.LastEntities,
			RecipeID:  recipeID,
			Timestamp: time.Now(),
		}
		if err := s.turns.Append(ctx, session.ID, turn); err != nil {
			s.logger.Printf("[CHEF] Turn history append failed: %v", err)
		}
	}

	if s.publisher != nil && st.Generated != nil {
		if id, err := uuid.Parse(st.Generated.ID); err == nil {
			if err := s.publisher.PublishEmbedRecipe(id); err != nil {
				s.logger.Printf("[CHEF] Embed enqueue failed: %v", err)
			}
		}
	}

	s.publishEvents(ctx, st, session)
}

func (s *chefService) publishEvents(ctx context.Context, st *state.GraphState, session *store.Session) {
	if s.natsPub == nil {
		return
	}

	branch, _ := st.Metadata["branch"].(string)
	degraded, _ := st.Metadata["degraded"].(bool)

	ev := events.NewChatTurnCompletedEvent(session.ID, string(st.Intent.Primary), branch, degraded)
	if err := s.natsPub.Publish(ctx, ev); err != nil {
		s.logger.Printf("[CHEF] Event publish failed: %v", err)
	}

	if st.Generated != nil {
		gen := events.NewRecipeGeneratedEvent(st.Generated.ID, session.ID, st.Generated.Name, st.Allergies)
		if err := s.natsPub.Publish(ctx, gen); err != nil {
			s.logger.Printf("[CHEF] Event publish failed: %v", err)
		}
	}
}

// shownRecipe is what the user actually saw this turn: the generated recipe,
// or the top-ranked candidate.
func shownRecipe(st *state.GraphState) *store.RecipeCandidate {
	if st.Generated != nil {
		return st.Generated
	}
	if len(st.Candidates) > 0 {
		return &st.Candidates[0]
	}
	return nil
}

func (s *chefService) toResponse(st *state.GraphState) *dto.ChatResponse {
	branch, _ := st.Metadata["branch"].(string)
	degraded, _ := st.Metadata["degraded"].(bool)
	timings, _ := st.Metadata["timings"].(map[string]int64)

	res := &dto.ChatResponse{
		SessionId:  st.SessionID,
		Reply:      st.Response,
		Intent:     string(st.Intent.Primary),
		Confidence: st.Intent.Confidence,
		Branch:     branch,
		Degraded:   degraded,
		Allergies:  st.Allergies,
		Generated:  dto.ToRecipeDTO(st.Generated),
		TimingsMs:  timings,
	}
	for i := range st.Candidates {
		res.Candidates = append(res.Candidates, dto.ToRecipeSummaryDTO(&st.Candidates[i]))
	}
	return res
}
