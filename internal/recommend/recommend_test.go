package recommend_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cinepick/internal/language"
	"cinepick/internal/llm"
	"cinepick/internal/metadata"
	"cinepick/internal/recommend"
	"cinepick/internal/services"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *stubGenerator) Provider() string { return "stub" }

type memoryHistory struct {
	saved []recommend.Result
	err   error
}

func (m *memoryHistory) Save(_ context.Context, result recommend.Result) error {
	m.saved = append(m.saved, result)
	return m.err
}

func newService(t *testing.T, gen llm.Generator, meta recommend.MetadataSource, opts ...recommend.ServiceOption) *recommend.Service {
	t.Helper()
	svc, err := recommend.NewService(gen, recommend.NewResolver(meta), opts...)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestRecommendEndToEnd(t *testing.T) {
	gen := &stubGenerator{reply: "Parasite (2019)\nMemories of Murder"}
	meta := &stubMetadata{results: map[string][]metadata.Candidate{
		"Parasite": {{ID: 496243, Title: "Parasite", OriginalLanguage: "ko", ReleaseDate: "2019-05-30"}},
	}}
	history := &memoryHistory{}
	svc := newService(t, gen, meta, recommend.WithHistory(history))

	korean, err := language.Resolve("Korean")
	if err != nil {
		t.Fatalf("language.Resolve: %v", err)
	}
	ctx := services.WithRequestID(context.Background(), "req-1")
	result, err := svc.Recommend(ctx, recommend.Request{Text: "Korean thriller from 2019", Language: korean})
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	if result.RequestID != "req-1" || result.Year != "2019" {
		t.Fatalf("unexpected result header: %+v", result)
	}
	if len(result.Outcomes) != 2 || !result.Outcomes[0].Matched || result.Outcomes[1].Matched {
		t.Fatalf("unexpected outcomes: %+v", result.Outcomes)
	}
	if result.Matched() != 1 {
		t.Fatalf("expected 1 match, got %d", result.Matched())
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "Korean thriller from 2019 (Language: Korean)") {
		t.Fatalf("unexpected prompt: %v", gen.prompts)
	}
	for _, call := range meta.calls {
		if call.Lang != "ko" {
			t.Fatalf("expected ko language filter, got %+v", call)
		}
	}
	if len(history.saved) != 1 || history.saved[0].RequestID != "req-1" {
		t.Fatalf("expected run saved to history, got %+v", history.saved)
	}
}

func TestRecommendLanguageModelFailure(t *testing.T) {
	gen := &stubGenerator{err: &llm.StatusError{StatusCode: 401, Body: "bad key"}}
	meta := &stubMetadata{}
	history := &memoryHistory{}
	svc := newService(t, gen, meta, recommend.WithHistory(history))

	result, err := svc.Recommend(context.Background(), recommend.Request{Text: "anything"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker for 401, got %v", err)
	}
	if len(result.Outcomes) != 0 {
		t.Fatalf("expected zero outcomes, got %d", len(result.Outcomes))
	}
	if len(meta.calls) != 0 || len(history.saved) != 0 {
		t.Fatal("no lookups or history writes expected after a model failure")
	}
}

func TestRecommendExternalFailureMarker(t *testing.T) {
	svc := newService(t, &stubGenerator{err: errors.New("quota exceeded")}, &stubMetadata{})
	_, err := svc.Recommend(context.Background(), recommend.Request{Text: "anything"})
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external marker, got %v", err)
	}
	if services.HTTPStatus(err) != 502 {
		t.Fatalf("expected 502 mapping, got %d", services.HTTPStatus(err))
	}
}

func TestRecommendRejectsEmptyText(t *testing.T) {
	gen := &stubGenerator{}
	svc := newService(t, gen, &stubMetadata{})
	_, err := svc.Recommend(context.Background(), recommend.Request{Text: "   "})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatal("model must not be called for empty text")
	}
}

func TestRecommendAssignsRequestIDAndIgnoresHistoryErrors(t *testing.T) {
	history := &memoryHistory{err: errors.New("disk full")}
	svc := newService(t, &stubGenerator{reply: "Her"}, &stubMetadata{}, recommend.WithHistory(history))

	result, err := svc.Recommend(context.Background(), recommend.Request{Text: "lonely sci-fi romance"})
	if err != nil {
		t.Fatalf("history failure must not surface, got %v", err)
	}
	if len(result.RequestID) != 36 {
		t.Fatalf("expected uuid request id, got %q", result.RequestID)
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := recommend.NewService(nil, recommend.NewResolver(&stubMetadata{})); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if _, err := recommend.NewService(&stubGenerator{}, nil); err == nil {
		t.Fatal("expected error for nil resolver")
	}
}
