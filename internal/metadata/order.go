package metadata

import (
	"slices"
	"strings"

	"cinepick/internal/language"
)

// FilterByLanguage keeps candidates whose original language equals the
// option's code. A no-filter option returns the input unchanged.
func FilterByLanguage(cands []Candidate, lang language.Option) []Candidate {
	if lang.Any() {
		return cands
	}
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if lang.Matches(c.OriginalLanguage) {
			out = append(out, c)
		}
	}
	return out
}

// SortByReleaseDate orders candidates newest first. Candidates without a
// release date always sort after dated ones; ties keep their input order.
func SortByReleaseDate(cands []Candidate) {
	slices.SortStableFunc(cands, compareReleaseDesc)
}

func compareReleaseDesc(a, b Candidate) int {
	ad := strings.TrimSpace(a.ReleaseDate)
	bd := strings.TrimSpace(b.ReleaseDate)
	switch {
	case ad == "" && bd == "":
		return 0
	case ad == "":
		return 1
	case bd == "":
		return -1
	}
	return strings.Compare(bd, ad)
}
