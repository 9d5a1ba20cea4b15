package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"cinepick/internal/history"
	"cinepick/internal/language"
	"cinepick/internal/metadata"
	"cinepick/internal/recommend"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
	notAvailable     = "N/A"
	timeLayout       = "2006-01-02 15:04"
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatRating(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvailable
	}
	return value
}

// renderResult prints the outcome table followed by the link list for every
// matched movie. Unmatched lines stay in the table so the order of the model
// output is preserved.
func renderResult(out io.Writer, result recommend.Result) error {
	colorize := shouldColorize(out)
	title := fmt.Sprintf("%s (%s)", result.Request.Text, result.Request.Language.String())
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	if len(result.Outcomes) == 0 {
		fmt.Fprintln(out, "The language model returned no suggestions.")
		return nil
	}

	rows := make([][]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		if !o.Matched {
			note := "no match"
			if o.SearchErr != "" {
				note = "lookup failed"
			}
			rows = append(rows, []string{strconv.Itoa(o.Index + 1), o.Suggestion, note, "", ""})
			continue
		}
		m := o.Movie
		rows = append(rows, []string{
			strconv.Itoa(o.Index + 1),
			o.Suggestion,
			m.Title,
			orNA(m.ReleaseDate),
			formatRating(m.VoteAverage),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Suggestion", "Match", "Released", "Rating"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))

	for _, o := range result.Outcomes {
		if !o.Matched {
			continue
		}
		m := o.Movie
		fmt.Fprintf(out, "\n%d. %s\n", o.Index+1, m.Title)
		if overview := strings.TrimSpace(m.Overview); overview != "" {
			fmt.Fprintf(out, "%s%s\n", statusIndent, overview)
		}
		if m.PosterURL != "" {
			fmt.Fprintf(out, "%sPoster:  %s\n", statusIndent, m.PosterURL)
		}
		if m.TrailerURL != "" {
			fmt.Fprintf(out, "%sTrailer: %s\n", statusIndent, m.TrailerURL)
		} else {
			fmt.Fprintf(out, "%sTrailer: not available\n", statusIndent)
		}
		fmt.Fprintf(out, "%sWatch:   %s\n", statusIndent, m.OTTURL)
	}

	summary := fmt.Sprintf("%d of %d suggestions matched", result.Matched(), len(result.Outcomes))
	if result.Year != "" {
		summary += fmt.Sprintf(", filtered to %s", result.Year)
	}
	fmt.Fprintf(out, "\n%s (request %s)\n", summary, result.RequestID)
	return nil
}

func renderCandidates(out io.Writer, cands []metadata.Candidate) error {
	if len(cands) == 0 {
		fmt.Fprintln(out, "No results")
		return nil
	}
	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Title,
			orNA(c.ReleaseDate),
			language.DisplayName(c.OriginalLanguage),
			formatRating(c.VoteAverage),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Released", "Language", "Rating"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func renderHistory(out io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "History is empty")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.RequestID,
			e.CreatedAt.Local().Format(timeLayout),
			e.Text,
			e.Language.String(),
			fmt.Sprintf("%d/%d", e.Matched, e.Suggestions),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Request", "When", "Text", "Language", "Matched"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}
