package recommend

import (
	"time"

	"cinepick/internal/language"
	"cinepick/internal/metadata"
)

// Movie is the candidate chosen for a suggestion plus its derived links.
// Link fields are empty when unavailable.
type Movie struct {
	metadata.Candidate
	PosterURL  string `json:"poster_url,omitempty"`
	TrailerURL string `json:"trailer_url,omitempty"`
	OTTURL     string `json:"ott_url,omitempty"`
}

// Outcome is the result for one suggestion line. Matched is false for the
// explicit no-match case; SearchErr records why, when the lookup itself failed.
type Outcome struct {
	Index      int    `json:"index"`
	Suggestion string `json:"suggestion"`
	Query      string `json:"query"`
	Matched    bool   `json:"matched"`
	Movie      *Movie `json:"movie,omitempty"`
	Candidates int    `json:"candidates"`
	SearchErr  string `json:"search_error,omitempty"`
}

// Request is a free-text preference with an optional language restriction.
type Request struct {
	Text     string          `json:"text"`
	Language language.Option `json:"language"`
}

// Result is a completed recommendation run.
type Result struct {
	RequestID string    `json:"request_id"`
	Request   Request   `json:"request"`
	Year      string    `json:"year,omitempty"`
	RawOutput string    `json:"raw_output"`
	Outcomes  []Outcome `json:"outcomes"`
	CreatedAt time.Time `json:"created_at"`
}

// Matched returns how many outcomes resolved to a movie.
func (r Result) Matched() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Matched {
			n++
		}
	}
	return n
}
