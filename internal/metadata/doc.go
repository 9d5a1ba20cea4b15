// Package metadata turns raw TMDB lookups into ranked candidates for the
// recommendation resolver.
//
// Lookups never return a separate error: SearchResult and TrailerResult carry
// the failure so callers can record it per title and move on. Candidates are
// filtered by original language and ordered by release date, newest first,
// with undated entries always last. Results are optionally cached on disk,
// identical concurrent lookups are collapsed into one request, and outbound
// calls can be paced with a token bucket.
package metadata
