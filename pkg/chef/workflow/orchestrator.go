package workflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/generate"
	"ai-recipechat-be/pkg/chef/intent"
	"ai-recipechat-be/pkg/chef/response"
	"ai-recipechat-be/pkg/chef/search"
	"ai-recipechat-be/pkg/chef/state"
	"ai-recipechat-be/pkg/llm"
	"ai-recipechat-be/pkg/store"
)

const generalChatSystemPrompt = `You are a friendly cooking assistant. Answer briefly and warmly. ` +
	`If the user drifts away from food, gently steer back to cooking. Plain text only, no JSON.`

// nodeFunc is one pipeline stage: it reads the current state and returns a
// patch. Errors are recoverable by contract; the wrapper turns them into
// metadata plus a node-specific fallback.
type nodeFunc func(ctx context.Context, st *state.GraphState) (*state.Patch, error)

// Orchestrator walks the request graph:
//
//	start -> intent_analysis -> {recipe_search | cooking_help | general_chat}
//	      -> response_integration -> end
//
// Execution is strictly sequential; the state is single-writer by construction
// so nodes never need locks.
type Orchestrator struct {
	extractor  *extract.Extractor
	classifier *intent.Classifier
	retriever  *search.Engine
	generator  *generate.Engine
	composer   *response.Composer
	chat       llm.Provider
	logger     *log.Logger
}

// NewOrchestrator wires the pipeline. chat may be nil; general_chat then
// answers with a canned line instead of calling the model.
func NewOrchestrator(
	extractor *extract.Extractor,
	classifier *intent.Classifier,
	retriever *search.Engine,
	generator *generate.Engine,
	composer *response.Composer,
	chat llm.Provider,
	logger *log.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor:  extractor,
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		composer:   composer,
		chat:       chat,
		logger:     logger,
	}
}

// Run executes the graph for one request. session carries the previous turn's
// context and may be nil. emitter may be nil (no streaming consumer). Run
// always produces a response; every node failure degrades to its fallback.
func (o *Orchestrator) Run(
	ctx context.Context,
	st *state.GraphState,
	session *store.Session,
	emitter *Emitter,
) *state.GraphState {

	started := time.Now()
	emitter.Status(string(state.NodeStart), "Reading your message")

	o.runNode(ctx, st, emitter, state.NodeIntentAnalysis, o.intentFallback, o.intentAnalysisNode)

	next := state.RouteIntent(st.Intent.Primary)
	switch next {
	case state.NodeRecipeSearch:
		emitter.Status(string(next), "Searching recipes")
		o.runNode(ctx, st, emitter, state.NodeRecipeSearch, o.searchFallback, o.recipeSearchNode(session))
	case state.NodeCookingHelp:
		emitter.Status(string(next), "Thinking about your cooking question")
		o.runNode(ctx, st, emitter, state.NodeCookingHelp, o.searchFallback, o.cookingHelpNode(session))
	default:
		emitter.Status(string(next), "Chatting")
		o.runNode(ctx, st, emitter, state.NodeGeneralChat, o.chatFallback, o.generalChatNode)
	}

	emitter.Status(string(state.NodeResponseIntegration), "Writing the answer")
	o.runNode(ctx, st, emitter, state.NodeResponseIntegration, o.composeFallback, o.responseIntegrationNode(session))

	st.RecordTiming(state.NodeEnd, time.Since(started))
	emitter.Finish(st.Response)

	return st
}

// runNode applies the uniform per-node policy: time it, merge its patch, and
// on error record it, emit it, and merge the fallback patch instead.
func (o *Orchestrator) runNode(
	ctx context.Context,
	st *state.GraphState,
	emitter *Emitter,
	node state.NodeID,
	fallback func(st *state.GraphState) *state.Patch,
	fn nodeFunc,
) {
	started := time.Now()
	patch, err := fn(ctx, st)
	st.RecordTiming(node, time.Since(started))

	if err != nil {
		o.logger.Printf("[WORKFLOW] Node %s failed: %v", node, err)
		st.RecordError(node, err)
		emitter.Error(string(node), err.Error())
		if fallback != nil {
			state.Merge(st, fallback(st))
		}
		return
	}
	state.Merge(st, patch)
}

// --- nodes ---

func (o *Orchestrator) intentAnalysisNode(ctx context.Context, st *state.GraphState) (*state.Patch, error) {
	if strings.TrimSpace(st.Query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	entities := o.extractor.Entities(st.Query)
	allergies := o.extractor.Allergies(st.Query, st.Allergies)
	exclusions := o.extractor.ExclusionTokens(allergies)
	result := o.classifier.Classify(st.Query, entities)

	return &state.Patch{
		Entities:        entities,
		Allergies:       allergies,
		ExclusionTokens: exclusions,
		Intent:          &result,
		Filters:         filtersFromEntities(entities),
	}, nil
}

// recipeSearchNode retrieves candidates and, only when the corpus came back
// empty on a healthy backend, falls through to generation. An unreachable
// backend is flagged as degraded instead; inventing recipes to paper over an
// outage hides the failure from the user.
func (o *Orchestrator) recipeSearchNode(session *store.Session) nodeFunc {
	return func(ctx context.Context, st *state.GraphState) (*state.Patch, error) {
		res := o.retriever.Retrieve(ctx, st)

		patch := &state.Patch{
			Candidates:    res.Candidates,
			CandidatesSet: true,
			Metadata: map[string]any{
				"retrieval_ms": res.TookMs,
			},
		}

		if res.Fallback {
			patch.Metadata["degraded"] = true
			return patch, nil
		}

		if len(res.Candidates) == 0 && o.generator != nil {
			o.logger.Printf("[WORKFLOW] Zero candidates, attempting generation")
			if gen := o.generator.Generate(ctx, st.Query, st.Allergies, st.ExclusionTokens, nil); gen != nil {
				patch.Generated = gen
			}
		}

		return patch, nil
	}
}

// cookingHelpNode grounds advice and substitution answers: related recipes for
// context, plus substitute suggestions when the question names an allergen.
func (o *Orchestrator) cookingHelpNode(session *store.Session) nodeFunc {
	return func(ctx context.Context, st *state.GraphState) (*state.Patch, error) {
		res := o.retriever.Retrieve(ctx, st)

		patch := &state.Patch{
			Candidates:    res.Candidates,
			CandidatesSet: true,
			Metadata: map[string]any{
				"help_topic": string(st.Intent.Primary),
			},
		}
		if res.Fallback {
			patch.Metadata["degraded"] = true
		}

		if st.Intent.Primary == state.IntentIngredientSubstitute {
			subs := map[string][]string{}
			for _, allergy := range st.Allergies {
				if s := o.extractor.Substitutes(allergy); len(s) > 0 {
					subs[allergy] = s
				}
			}
			if len(subs) > 0 {
				patch.Metadata["substitutes"] = subs
			}
		}

		return patch, nil
	}
}

func (o *Orchestrator) generalChatNode(ctx context.Context, st *state.GraphState) (*state.Patch, error) {
	// A blank query must come back as a clarification prompt, never as a model
	// reply to whitespace.
	if strings.TrimSpace(st.Query) == "" || o.chat == nil {
		return &state.Patch{Response: response.ClarifyEmptyQuery}, nil
	}

	history := []llm.Message{
		{Role: "system", Content: generalChatSystemPrompt},
		{Role: "user", Content: st.Query},
	}
	reply, err := o.chat.Chat(ctx, history, llm.WithTemperature(0.8), llm.WithMaxTokens(300))
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	return &state.Patch{Response: strings.TrimSpace(reply)}, nil
}

// responseIntegrationNode composes the final text unless an upstream node
// already produced one (general_chat) or flagged degradation with nothing to
// show.
func (o *Orchestrator) responseIntegrationNode(session *store.Session) nodeFunc {
	return func(ctx context.Context, st *state.GraphState) (*state.Patch, error) {
		if st.Response != "" {
			return &state.Patch{Metadata: map[string]any{"branch": "passthrough"}}, nil
		}

		if degraded, _ := st.Metadata["degraded"].(bool); degraded &&
			len(st.Candidates) == 0 && st.Generated == nil {
			return &state.Patch{
				Response: response.FallbackSearch,
				Metadata: map[string]any{"branch": "degraded"},
			}, nil
		}

		result := o.composer.Compose(st, session)
		if result.Reply == "" {
			return nil, fmt.Errorf("composer produced empty response")
		}
		return &state.Patch{
			Response: result.Reply,
			Metadata: map[string]any{"branch": result.Branch},
		}, nil
	}
}

// --- per-node fallback patches ---

func (o *Orchestrator) intentFallback(st *state.GraphState) *state.Patch {
	return &state.Patch{
		Intent: &state.IntentResult{
			Primary:    state.IntentGeneralChat,
			Confidence: 0.3,
		},
		Response: response.FallbackIntent,
	}
}

func (o *Orchestrator) searchFallback(st *state.GraphState) *state.Patch {
	return &state.Patch{
		CandidatesSet: true,
		Metadata:      map[string]any{"degraded": true},
	}
}

func (o *Orchestrator) chatFallback(st *state.GraphState) *state.Patch {
	return &state.Patch{Response: response.FallbackGenerate}
}

func (o *Orchestrator) composeFallback(st *state.GraphState) *state.Patch {
	return &state.Patch{Response: response.FallbackCompose}
}

// filtersFromEntities lifts constraint-shaped entities into search filters.
// Dietary entities become tag filters; time and difficulty hints stay in the
// query text for scoring.
func filtersFromEntities(entities []extract.Entity) *state.SearchFilters {
	var filters state.SearchFilters
	for _, ent := range entities {
		if ent.Type == extract.CategoryDietary {
			filters.Tags = append(filters.Tags, ent.Value)
		}
	}
	return &filters
}
