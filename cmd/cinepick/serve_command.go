package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cinepick/internal/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			svc, meta, err := ctx.recommendService()
			if err != nil {
				return err
			}

			opts := httpapi.Options{
				Bind:               cfg.Server.Bind,
				RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
				RequestTimeout:     time.Duration(cfg.Server.RequestTimeout) * time.Second,
				Logger:             logger,
			}
			if bind := strings.TrimSpace(bindFlag); bind != "" {
				opts.Bind = bind
			}

			var hist httpapi.HistoryReader
			if store, err := ctx.openHistory(); err == nil && store != nil {
				hist = store
			}
			server, err := httpapi.New(opts, svc, meta, hist)
			if err != nil {
				return err
			}
			return server.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
