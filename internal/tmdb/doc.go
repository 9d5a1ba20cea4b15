// Package tmdb is a thin client for the two TMDB endpoints cinepick uses:
// movie search and the per-movie video listing.
//
// It returns explicit errors; soft-fail handling, caching, and pacing live in
// the metadata package above it.
package tmdb
