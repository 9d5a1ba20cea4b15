package recommend

import (
	"strings"

	"cinepick/internal/metadata"
)

// ExtractYear returns the first 1900-2099 year mentioned in text, or "".
func ExtractYear(text string) string {
	return yearPattern.FindString(text)
}

// FilterByYear keeps candidates whose release date starts with year. An
// empty year returns cands unchanged.
func FilterByYear(cands []metadata.Candidate, year string) []metadata.Candidate {
	if year == "" {
		return cands
	}
	out := make([]metadata.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.ReleaseDate != "" && strings.HasPrefix(c.ReleaseDate, year) {
			out = append(out, c)
		}
	}
	return out
}
