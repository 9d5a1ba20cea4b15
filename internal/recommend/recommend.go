package recommend

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinepick/internal/llm"
	"cinepick/internal/logging"
	"cinepick/internal/services"
)

// HistoryStore persists completed runs.
type HistoryStore interface {
	Save(ctx context.Context, result Result) error
}

// Service runs the full pipeline: prompt, language model, resolution.
type Service struct {
	generator llm.Generator
	resolver  *Resolver
	history   HistoryStore
	logger    *slog.Logger
	now       func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHistory records every successful run in store.
func WithHistory(store HistoryStore) ServiceOption {
	return func(s *Service) {
		s.history = store
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, "recommend")
	}
}

// NewService wires a generator and a resolver into a recommendation service.
func NewService(generator llm.Generator, resolver *Resolver, opts ...ServiceOption) (*Service, error) {
	if generator == nil {
		return nil, errors.New("recommend: language model client required")
	}
	if resolver == nil {
		return nil, errors.New("recommend: resolver required")
	}
	s := &Service{
		generator: generator,
		resolver:  resolver,
		logger:    logging.NewComponentLogger(nil, "recommend"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Recommend asks the language model for titles matching req and resolves
// each one. A language model failure is returned as a single error with no
// outcomes; per-title lookup failures only ever produce no-match outcomes.
func (s *Service) Recommend(ctx context.Context, req Request) (Result, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return Result{}, services.Wrap(services.ErrValidation, "recommend", "validate", "request text is empty", nil)
	}

	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, s.logger)

	prompt, err := BuildPrompt(req)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "recommend", "prompt", "", err)
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		marker := services.ErrExternal
		switch {
		case llm.IsUnauthorized(err):
			marker = services.ErrConfiguration
		case errors.Is(err, context.DeadlineExceeded):
			marker = services.ErrTimeout
		}
		logging.ErrorWithContext(logger, "language model call failed", "llm_failed",
			logging.String("provider", s.generator.Provider()),
			logging.Duration("elapsed", time.Since(start)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key, quota, and network connectivity; retry the request"),
		)
		return Result{}, services.Wrap(marker, "recommend", "generate", "language model call failed", err)
	}
	logger.Debug("language model replied",
		logging.String("provider", s.generator.Provider()),
		logging.Duration("elapsed", time.Since(start)),
		logging.Int("bytes", len(raw)),
	)

	result := Result{
		RequestID: requestID,
		Request:   req,
		Year:      ExtractYear(req.Text),
		RawOutput: raw,
		Outcomes:  s.resolver.Resolve(ctx, raw, req.Text, req.Language.Code),
		CreatedAt: s.now().UTC(),
	}
	logger.Info("recommendation complete",
		logging.Int("suggestions", len(result.Outcomes)),
		logging.Int("matched", result.Matched()),
	)

	if s.history != nil {
		if err := s.history.Save(ctx, result); err != nil {
			logging.WarnWithContext(logger, "failed to save recommendation history", "history_save_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run will not appear in history"),
			)
		}
	}
	return result, nil
}
