package metadata

import "cinepick/internal/tmdb"

// Candidate is one TMDB search hit considered for a suggestion.
type Candidate struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	VoteAverage      *float64 `json:"vote_average,omitempty"`
	VoteCount        int64    `json:"vote_count,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	PosterPath       string   `json:"poster_path,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
}

// Year returns the four-digit release year, or "" when the date is unknown.
func (c Candidate) Year() string {
	if len(c.ReleaseDate) < 4 {
		return ""
	}
	return c.ReleaseDate[:4]
}

// SearchResult is the soft-fail outcome of a search. Err is set when the
// lookup itself failed; in that case Candidates is nil.
type SearchResult struct {
	Candidates []Candidate
	Err        error
}

// OK reports whether the lookup succeeded, regardless of how many candidates it found.
func (r SearchResult) OK() bool {
	return r.Err == nil
}

// TrailerResult is the soft-fail outcome of a trailer lookup.
type TrailerResult struct {
	URL   string
	Key   string
	Found bool
	Err   error
}

func candidateFromResult(r tmdb.Result) Candidate {
	return Candidate{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		OriginalLanguage: r.OriginalLanguage,
		ReleaseDate:      r.ReleaseDate,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		Popularity:       r.Popularity,
	}
}
