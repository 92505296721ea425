package workflow

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/generate"
	"ai-recipechat-be/pkg/chef/intent"
	"ai-recipechat-be/pkg/chef/response"
	"ai-recipechat-be/pkg/chef/search"
	"ai-recipechat-be/pkg/chef/state"
	"ai-recipechat-be/pkg/llm"
	"ai-recipechat-be/pkg/store"
)

type fakeBackend struct {
	hits []store.RecipeCandidate
	err  error
}

func (f *fakeBackend) Search(ctx context.Context, spec search.QuerySpec) (*search.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{Hits: f.hits, Total: len(f.hits), TookMs: 3}, nil
}

type fakeLLM struct {
	chatReply     string
	generateReply string
	err           error
	generateCalls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.chatReply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.generateCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.generateReply, nil
}

const generatedRecipeJSON = `{
	"name": "Improvised Veggie Bowl",
	"description": "Built from what you asked for.",
	"ingredients": ["rice", "carrot", "sesame-free dressing"],
	"steps": ["Cook rice.", "Top with vegetables."],
	"minutes": 25,
	"servings": 2,
	"difficulty": "easy"
}`

func newTestOrchestrator(backend search.Backend, model *fakeLLM) *Orchestrator {
	logger := log.New(io.Discard, "", 0)
	dict := extract.DefaultDictionary()
	extractor := extract.NewExtractor(dict, nil, nil)

	retriever := search.NewEngine(backend, nil, dict, search.DefaultRankConfig(), logger)

	var generator *generate.Engine
	var chat llm.Provider
	if model != nil {
		generator = generate.NewEngine(model, nil, logger)
		chat = model
	}

	return NewOrchestrator(
		extractor,
		intent.NewClassifier(nil),
		retriever,
		generator,
		response.NewComposer(extractor, logger),
		chat,
		logger,
	)
}

func TestRunSearchWithCandidates(t *testing.T) {
	backend := &fakeBackend{hits: []store.RecipeCandidate{
		{ID: "1", Name: "Chicken Fried Rice", Ingredients: []string{"rice", "chicken"}, TextScore: 0.9, VectorScore: 0.8},
		{ID: "2", Name: "Garlic Chicken", Ingredients: []string{"chicken", "garlic"}, TextScore: 0.7, VectorScore: 0.6},
	}}
	model := &fakeLLM{generateReply: generatedRecipeJSON}
	o := newTestOrchestrator(backend, model)

	st := state.New("recommend a dinner recipe", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if st.Intent.Primary != state.IntentRecipeSearch {
		t.Fatalf("Intent = %q, want recipe_search", st.Intent.Primary)
	}
	if len(st.Candidates) != 2 {
		t.Fatalf("Candidates = %d, want 2", len(st.Candidates))
	}
	if st.Generated != nil {
		t.Error("generation must not run when retrieval found candidates")
	}
	if model.generateCalls != 0 {
		t.Errorf("Generate called %d times, want 0", model.generateCalls)
	}
	if branch, _ := st.Metadata["branch"].(string); branch != response.BranchCandidates {
		t.Errorf("branch = %q, want %q", branch, response.BranchCandidates)
	}
	if !strings.Contains(st.Response, "Chicken Fried Rice") {
		t.Errorf("response missing top candidate:\n%s", st.Response)
	}
}

func TestRunZeroHitsFallsThroughToGeneration(t *testing.T) {
	backend := &fakeBackend{} // healthy, empty corpus
	model := &fakeLLM{generateReply: generatedRecipeJSON}
	o := newTestOrchestrator(backend, model)

	st := state.New("recommend a dinner recipe", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if st.Generated == nil {
		t.Fatal("empty retrieval on a healthy backend must trigger generation")
	}
	if st.Generated.Provenance != store.ProvenanceGenerated {
		t.Errorf("Provenance = %q", st.Generated.Provenance)
	}
	if branch, _ := st.Metadata["branch"].(string); branch != response.BranchGenerated {
		t.Errorf("branch = %q, want %q", branch, response.BranchGenerated)
	}
	if !strings.Contains(st.Response, "Improvised Veggie Bowl") {
		t.Errorf("response missing generated recipe:\n%s", st.Response)
	}
}

func TestRunBackendOutageDegradesWithoutGeneration(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection refused")}
	model := &fakeLLM{generateReply: generatedRecipeJSON}
	o := newTestOrchestrator(backend, model)

	st := state.New("recommend a dinner recipe", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if degraded, _ := st.Metadata["degraded"].(bool); !degraded {
		t.Fatal("backend outage must flag the turn as degraded")
	}
	if model.generateCalls != 0 {
		t.Error("an outage must not be papered over with a generated recipe")
	}
	if st.Response != response.FallbackSearch {
		t.Errorf("Response = %q, want search fallback", st.Response)
	}
}

func TestRunMalformedGenerationFallsToGuidance(t *testing.T) {
	backend := &fakeBackend{}
	model := &fakeLLM{generateReply: "so anyway, no JSON here"}
	o := newTestOrchestrator(backend, model)

	st := state.New("recommend a dinner recipe", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if st.Generated != nil {
		t.Fatal("malformed model output must not become a recipe")
	}
	// No re-prompt: exactly one generation attempt.
	if model.generateCalls != 1 {
		t.Errorf("Generate called %d times, want exactly 1", model.generateCalls)
	}
	if branch, _ := st.Metadata["branch"].(string); branch != response.BranchGuidance {
		t.Errorf("branch = %q, want %q", branch, response.BranchGuidance)
	}
}

func TestRunGeneralChat(t *testing.T) {
	backend := &fakeBackend{}
	model := &fakeLLM{chatReply: "Hi! What would you like to cook?"}
	o := newTestOrchestrator(backend, model)

	st := state.New("hello there", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if st.Intent.Primary != state.IntentGeneralChat {
		t.Fatalf("Intent = %q, want general_chat", st.Intent.Primary)
	}
	if st.Response != "Hi! What would you like to cook?" {
		t.Errorf("Response = %q", st.Response)
	}
	if branch, _ := st.Metadata["branch"].(string); branch != "passthrough" {
		t.Errorf("branch = %q, want passthrough", branch)
	}
}

func TestRunAllergyFiltersCandidates(t *testing.T) {
	backend := &fakeBackend{hits: []store.RecipeCandidate{
		{ID: "unsafe", Name: "Satay Skewers", Ingredients: []string{"chicken", "crushed peanuts"}, TextScore: 0.9, VectorScore: 0.9},
		{ID: "safe", Name: "Garlic Chicken", Ingredients: []string{"chicken", "garlic"}, TextScore: 0.7, VectorScore: 0.7},
	}}
	o := newTestOrchestrator(backend, &fakeLLM{generateReply: generatedRecipeJSON})

	st := state.New("I'm allergic to peanuts, recommend a dinner recipe", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if len(st.Allergies) != 1 || st.Allergies[0] != "peanut" {
		t.Fatalf("Allergies = %v, want [peanut]", st.Allergies)
	}
	if len(st.Candidates) != 1 || st.Candidates[0].ID != "safe" {
		t.Fatalf("Candidates = %v, peanut recipe must be dropped", candidateIDs(st.Candidates))
	}
}

func TestRunEmptyQueryUsesIntentFallback(t *testing.T) {
	o := newTestOrchestrator(&fakeBackend{}, &fakeLLM{chatReply: "model reply to whitespace"})

	st := state.New("   ", "u1", "s1")
	o.Run(context.Background(), st, nil, nil)

	if st.Intent.Primary != state.IntentGeneralChat {
		t.Errorf("Intent = %q, want general_chat fallback", st.Intent.Primary)
	}
	// The chat model must not answer a blank query; the clarification prompt
	// wins over any model output.
	if st.Response != response.ClarifyEmptyQuery {
		t.Errorf("Response = %q, want clarification prompt", st.Response)
	}
	errs, _ := st.Metadata["errors"].(map[string]string)
	if errs["intent_analysis"] == "" {
		t.Error("intent failure must be recorded in metadata")
	}
}

func TestRunEmitsSingleTerminalChunk(t *testing.T) {
	backend := &fakeBackend{hits: []store.RecipeCandidate{
		{ID: "1", Name: "Chicken Fried Rice", Ingredients: []string{"rice"}, TextScore: 0.9, VectorScore: 0.8},
	}}
	o := newTestOrchestrator(backend, &fakeLLM{})

	st := state.New("recommend a dinner recipe", "u1", "s1")
	emitter := NewEmitter(32, nil)
	o.Run(context.Background(), st, nil, emitter)

	var events []StreamEvent
	for ev := range emitter.Events() {
		events = append(events, ev)
	}
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}

	finals := 0
	for _, ev := range events {
		if ev.Final {
			finals++
		}
	}
	if finals != 1 {
		t.Fatalf("final chunks = %d, want exactly 1", finals)
	}

	last := events[len(events)-1]
	if !last.Final || last.Type != EventContent {
		t.Errorf("last event = %+v, want terminal content chunk", last)
	}
	if last.Payload != st.Response {
		t.Error("terminal payload must carry the composed response")
	}
}

func candidateIDs(cs []store.RecipeCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
