package metadata

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"cinepick/internal/language"
	"cinepick/internal/links"
	"cinepick/internal/logging"
	"cinepick/internal/metacache"
	"cinepick/internal/metrics"
	"cinepick/internal/tmdb"
)

const (
	opSearch = "search"
	opVideos = "videos"

	siteYouTube = "YouTube"
	typeTrailer = "Trailer"

	// flightTimeout bounds a shared upstream lookup once it is detached
	// from the caller that started it.
	flightTimeout = 30 * time.Second
)

// Client wraps the TMDB transport with the soft-fail contract used by the
// resolver: failures are reported inside the returned value, never as a
// separate error, so one bad title never aborts a batch.
type Client struct {
	source  tmdb.Searcher
	cache   *metacache.Cache
	limiter *rate.Limiter
	group   singleflight.Group
	logger  *slog.Logger

	language string
	region   string
}

// Option configures a Client.
type Option func(*Client)

// WithCache stores raw TMDB payloads in cache. A nil cache disables caching.
func WithCache(cache *metacache.Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLocale records the TMDB language and region the source queries with.
// Both are part of every cache key, so clients configured for different
// locales never share cached payloads.
func WithLocale(lang, region string) Option {
	return func(c *Client) {
		c.language = strings.TrimSpace(lang)
		c.region = strings.ToUpper(strings.TrimSpace(region))
	}
}

// WithRateLimit paces outbound TMDB calls. Non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "metadata")
	}
}

// New creates a metadata client over the given TMDB source.
func New(source tmdb.Searcher, opts ...Option) *Client {
	c := &Client{
		source: source,
		logger: logging.NewComponentLogger(nil, "metadata"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchMovie looks up query on TMDB, keeps candidates whose original
// language equals lang (when lang is non-empty), and orders them newest
// first with undated entries last. An empty query returns an empty result
// without a network call.
func (c *Client) SearchMovie(ctx context.Context, query, lang string) SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}
	}
	logger := logging.WithContext(ctx, c.logger)

	results, err := c.search(ctx, query)
	if err != nil {
		logging.WarnWithContext(logger, "tmdb search failed", "tmdb_search_failed",
			logging.String("query", query),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check tmdb.api_key and network connectivity"),
			logging.String(logging.FieldImpact, "suggestion reported as no match"),
		)
		return SearchResult{Err: err}
	}

	cands := make([]Candidate, 0, len(results))
	for _, r := range results {
		cands = append(cands, candidateFromResult(r))
	}
	cands = FilterByLanguage(cands, language.ForCode(lang))
	SortByReleaseDate(cands)

	logger.Debug("tmdb search complete",
		logging.String("query", query),
		logging.String("language", lang),
		logging.Int("raw_results", len(results)),
		logging.Int("candidates", len(cands)),
	)
	return SearchResult{Candidates: cands}
}

// FetchTrailer returns the first YouTube trailer listed for the movie.
// Found is false when TMDB lists no such video or the lookup failed.
func (c *Client) FetchTrailer(ctx context.Context, movieID int64) TrailerResult {
	logger := logging.WithContext(ctx, c.logger)
	videos, err := c.videos(ctx, movieID)
	if err != nil {
		logging.WarnWithContext(logger, "tmdb videos lookup failed", "tmdb_videos_failed",
			logging.Int64("tmdb_id", movieID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "movie shown without trailer"),
		)
		return TrailerResult{Err: err}
	}
	for _, v := range videos {
		if v.Site == siteYouTube && v.Type == typeTrailer && strings.TrimSpace(v.Key) != "" {
			return TrailerResult{URL: links.YouTubeURL(v.Key), Key: v.Key, Found: true}
		}
	}
	return TrailerResult{}
}

func (c *Client) search(ctx context.Context, query string) ([]tmdb.Result, error) {
	key := metacache.Key(opSearch, c.language, c.region, strings.ToLower(query))
	var cached []tmdb.Result
	if c.cache.Get(key, &cached) {
		metrics.ObserveTMDB(opSearch, metrics.ResultCacheHit, 0)
		return cached, nil
	}

	v, err := c.shared(ctx, key, func(fctx context.Context) (any, error) {
		start := time.Now()
		resp, err := c.source.SearchMovie(fctx, query)
		elapsed := time.Since(start)
		if err != nil {
			metrics.ObserveTMDB(opSearch, metrics.ResultError, elapsed)
			return nil, err
		}
		result := metrics.ResultOK
		if len(resp.Results) == 0 {
			result = metrics.ResultEmpty
		}
		metrics.ObserveTMDB(opSearch, result, elapsed)
		c.store(key, resp.Results)
		return resp.Results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]tmdb.Result), nil
}

func (c *Client) videos(ctx context.Context, movieID int64) ([]tmdb.Video, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	key := metacache.Key(opVideos, c.language, strconv.FormatInt(movieID, 10))
	var cached []tmdb.Video
	if c.cache.Get(key, &cached) {
		metrics.ObserveTMDB(opVideos, metrics.ResultCacheHit, 0)
		return cached, nil
	}

	v, err := c.shared(ctx, key, func(fctx context.Context) (any, error) {
		start := time.Now()
		resp, err := c.source.MovieVideos(fctx, movieID)
		elapsed := time.Since(start)
		if err != nil {
			metrics.ObserveTMDB(opVideos, metrics.ResultError, elapsed)
			return nil, err
		}
		metrics.ObserveTMDB(opVideos, metrics.ResultOK, elapsed)
		c.store(key, resp.Results)
		return resp.Results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]tmdb.Video), nil
}

// shared runs fn once per key across concurrent callers. The flight runs on
// a context detached from the caller's cancellation, so a caller that gives
// up early only abandons its own wait and never fails the others.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		if err := c.wait(fctx); err != nil {
			return nil, err
		}
		return fn(fctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *Client) store(key string, v any) {
	if err := c.cache.Set(key, v); err != nil {
		c.logger.Debug("metadata cache write failed", logging.Error(err))
	}
}
