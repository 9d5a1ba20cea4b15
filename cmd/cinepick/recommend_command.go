package main

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cinepick/internal/language"
	"cinepick/internal/recommend"
	"cinepick/internal/services"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "recommend <description>",
		Short: "Ask the language model for movies and match them against TMDB",
		Long: `Describe what you want to watch in plain words. The language model suggests
titles, each title is looked up on TMDB, and the first match is shown with its
poster, trailer and a streaming search link. A year in the description (for
example "thrillers from 2019") restricts every match to that release year.`,
		Example: `  cinepick recommend "emotional Tamil family drama" --language Tamil
  cinepick recommend "Korean thriller from 2019" -l ko --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return errors.New("description is required")
			}
			lang, err := language.Resolve(languageFlag)
			if err != nil {
				return err
			}

			svc, _, err := ctx.recommendService()
			if err != nil {
				return err
			}
			runCtx := services.WithSource(cmd.Context(), "cli")
			result, err := svc.Recommend(runCtx, recommend.Request{Text: text, Language: lang})
			if err != nil {
				return err
			}
			return emit(cmd, ctx, result, func(out io.Writer) error {
				return renderResult(out, result)
			})
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Restrict matches to a language (name or ISO code, default all)")
	return cmd
}
