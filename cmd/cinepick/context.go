package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"cinepick/internal/config"
	"cinepick/internal/history"
	"cinepick/internal/llm"
	"cinepick/internal/logging"
	"cinepick/internal/metacache"
	"cinepick/internal/metadata"
	"cinepick/internal/recommend"
	"cinepick/internal/tmdb"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	history *history.Store
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openCache() (*metacache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return metacache.New(cfg.Paths.CacheDir, time.Duration(cfg.Cache.TTLHours)*time.Hour, logger)
}

func (c *commandContext) openHistory() (*history.Store, error) {
	if c.history != nil {
		return c.history, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	c.history = store
	return store, nil
}

func (c *commandContext) requireHistory() (*history.Store, error) {
	store, err := c.openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("history is disabled (set history.enabled = true)")
	}
	return store, nil
}

func (c *commandContext) metadataClient() (*metadata.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	source, err := tmdb.New(
		cfg.TMDB.APIKey,
		cfg.TMDB.BaseURL,
		cfg.TMDB.Language,
		tmdb.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second),
		tmdb.WithRegion(cfg.TMDB.Region),
		tmdb.WithIncludeAdult(cfg.TMDB.IncludeAdult),
	)
	if err != nil {
		return nil, fmt.Errorf("tmdb client: %w", err)
	}
	cache, err := c.openCache()
	if err != nil {
		logging.WarnWithContext(logger, "metadata cache unavailable", "cache_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "every lookup goes to TMDB"),
			logging.String(logging.FieldErrorHint, "check paths.cache_dir permissions or set cache.enabled = false"),
		)
		cache = nil
	}
	return metadata.New(source,
		metadata.WithCache(cache),
		metadata.WithRateLimit(cfg.TMDB.RequestsPerSecond, cfg.TMDB.Burst),
		metadata.WithLocale(cfg.TMDB.Language, cfg.TMDB.Region),
		metadata.WithLogger(logger),
	), nil
}

// recommendService wires the full pipeline and returns it alongside the
// metadata client it resolves through.
func (c *commandContext) recommendService() (*recommend.Service, *metadata.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	meta, err := c.metadataClient()
	if err != nil {
		return nil, nil, err
	}
	generator, err := llm.New(llm.Config{
		Provider:       cfg.LLM.Provider,
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		RetryAttempts:  cfg.LLM.RetryAttempts,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("language model client: %w", err)
	}
	resolver := recommend.NewResolver(meta,
		recommend.WithWorkers(cfg.Resolver.Workers),
		recommend.WithPosterBase(cfg.TMDB.ImageBaseURL),
		recommend.WithOTTTemplate(cfg.Resolver.OTTSearchTemplate),
		recommend.WithResolverLogger(logger),
	)

	opts := []recommend.ServiceOption{recommend.WithLogger(logger)}
	store, err := c.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "runs will not be recorded"),
		)
	} else if store != nil {
		opts = append(opts, recommend.WithHistory(store))
	}

	svc, err := recommend.NewService(generator, resolver, opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, meta, nil
}

func (c *commandContext) close() {
	if c.history != nil {
		_ = c.history.Close()
		c.history = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
