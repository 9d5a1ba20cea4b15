// Package history keeps completed recommendation runs in a local SQLite
// database so they can be listed and replayed from the CLI and the HTTP API.
//
// The schema is versioned; a database written by a different version is
// rejected with ErrSchemaMismatch rather than migrated.
package history
