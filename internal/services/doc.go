// Package services defines shared utilities consumed by the recommendation
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and the triggering surface
//     (cli, http) for logging and history.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable once they cross the recommend boundary (CLI exit, HTTP status).
//
// Use these helpers when wiring new components so error handling and
// observability stay uniform across the CLI and the HTTP service.
package services
