package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cinepick/internal/language"
	"cinepick/internal/metadata"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search TMDB directly, newest release first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			lang, err := language.Resolve(languageFlag)
			if err != nil {
				return err
			}
			meta, err := ctx.metadataClient()
			if err != nil {
				return err
			}
			result := meta.SearchMovie(cmd.Context(), query, lang.Code)
			if !result.OK() {
				return fmt.Errorf("search %q: %w", query, result.Err)
			}
			cands := result.Candidates
			if cands == nil {
				cands = []metadata.Candidate{}
			}
			return emit(cmd, ctx, cands, func(out io.Writer) error {
				return renderCandidates(out, cands)
			})
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Restrict results to a language (name or ISO code)")
	return cmd
}

type trailerOutput struct {
	MovieID int64  `json:"movie_id"`
	URL     string `json:"url,omitempty"`
	Found   bool   `json:"found"`
}

func newTrailerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "trailer <tmdb-id>",
		Short: "Print the YouTube trailer link for a TMDB movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid movie id %q", args[0])
			}
			meta, err := ctx.metadataClient()
			if err != nil {
				return err
			}
			trailer := meta.FetchTrailer(cmd.Context(), id)
			if trailer.Err != nil {
				return fmt.Errorf("trailer lookup for %d: %w", id, trailer.Err)
			}
			payload := trailerOutput{MovieID: id, URL: trailer.URL, Found: trailer.Found}
			return emit(cmd, ctx, payload, func(out io.Writer) error {
				if !trailer.Found {
					fmt.Fprintln(out, "Trailer not available")
					return nil
				}
				fmt.Fprintln(out, trailer.URL)
				return nil
			})
		},
	}
}

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List the languages accepted by --language",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			options := language.Options()
			return emit(cmd, ctx, options, func(out io.Writer) error {
				rows := make([][]string, 0, len(options))
				for _, opt := range options {
					code := opt.Code
					if opt.Any() {
						code = "-"
					}
					rows = append(rows, []string{opt.String(), code})
				}
				fmt.Fprintln(out, renderTable([]string{"Language", "Code"}, rows, nil))
				return nil
			})
		},
	}
}
