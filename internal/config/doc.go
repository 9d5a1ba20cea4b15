// Package config loads, normalizes, and validates cinepick configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and GOOGLE_API_KEY, including values declared in a local .env
// file. Validation runs eagerly so missing credentials are reported at startup
// instead of surfacing later as authentication failures.
//
// Always obtain settings through this package and pass the resulting Config to
// constructors; nothing else in the repository reads the environment.
package config
