package recommend

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	"cinepick/internal/links"
	"cinepick/internal/logging"
	"cinepick/internal/metadata"
	"cinepick/internal/metrics"
)

// MetadataSource is the soft-fail lookup surface the resolver depends on.
type MetadataSource interface {
	SearchMovie(ctx context.Context, query, lang string) metadata.SearchResult
	FetchTrailer(ctx context.Context, movieID int64) metadata.TrailerResult
}

// Resolver maps model output lines to movies, one outcome per line.
type Resolver struct {
	meta        MetadataSource
	workers     int
	posterBase  string
	ottTemplate string
	logger      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithWorkers resolves up to n lines concurrently. Output order is unaffected.
func WithWorkers(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithPosterBase sets the image base used for poster URLs.
func WithPosterBase(base string) ResolverOption {
	return func(r *Resolver) {
		if base != "" {
			r.posterBase = base
		}
	}
}

// WithOTTTemplate sets the OTT search template; {query} receives the title.
func WithOTTTemplate(template string) ResolverOption {
	return func(r *Resolver) {
		if template != "" {
			r.ottTemplate = template
		}
	}
}

// WithResolverLogger sets the base logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.NewComponentLogger(logger, "resolver")
	}
}

// NewResolver creates a resolver over meta. It resolves serially by default.
func NewResolver(meta MetadataSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		meta:        meta,
		workers:     1,
		posterBase:  links.DefaultPosterBase,
		ottTemplate: links.DefaultOTTSearchTemplate,
		logger:      logging.NewComponentLogger(nil, "resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type suggestion struct {
	index int
	line  string
}

// Resolve splits rawOutput into suggestion lines and resolves each against
// the metadata source. The year filter comes from requestText and applies to
// every line. Lookup failures become no-match outcomes; Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, rawOutput, requestText, lang string) []Outcome {
	lines := SplitSuggestions(rawOutput)
	year := ExtractYear(requestText)
	logger := logging.WithContext(ctx, r.logger)
	logger.Debug("resolving suggestions",
		logging.Int("lines", len(lines)),
		logging.String("year", year),
		logging.String("language", lang),
		logging.Int("workers", r.workers),
	)

	items := make([]suggestion, len(lines))
	for i, line := range lines {
		items[i] = suggestion{index: i, line: line}
	}

	resolveOne := func(s *suggestion) Outcome {
		return r.resolveLine(ctx, s.index, s.line, year, lang)
	}
	if r.workers <= 1 || len(items) <= 1 {
		outcomes := make([]Outcome, 0, len(items))
		for i := range items {
			outcomes = append(outcomes, resolveOne(&items[i]))
		}
		return outcomes
	}
	mapper := iter.Mapper[suggestion, Outcome]{MaxGoroutines: r.workers}
	return mapper.Map(items, resolveOne)
}

func (r *Resolver) resolveLine(ctx context.Context, index int, line, year, lang string) Outcome {
	query := NormalizeTitle(line)
	outcome := Outcome{Index: index, Suggestion: line, Query: query}

	search := r.meta.SearchMovie(ctx, query, lang)
	if !search.OK() {
		outcome.SearchErr = search.Err.Error()
	}
	cands := FilterByYear(search.Candidates, year)
	outcome.Candidates = len(cands)
	if len(cands) == 0 {
		metrics.ObserveOutcome(false)
		logging.WithContext(ctx, r.logger).Info("no match for suggestion",
			logging.String("suggestion", line),
			logging.String("query", query),
			logging.Int("searched", len(search.Candidates)),
		)
		return outcome
	}

	best := cands[0]
	movie := &Movie{
		Candidate: best,
		PosterURL: links.PosterURL(r.posterBase, best.PosterPath),
		OTTURL:    links.OTTSearchURL(r.ottTemplate, best.Title),
	}
	if trailer := r.meta.FetchTrailer(ctx, best.ID); trailer.Found {
		movie.TrailerURL = trailer.URL
	}
	outcome.Matched = true
	outcome.Movie = movie
	metrics.ObserveOutcome(true)
	return outcome
}
