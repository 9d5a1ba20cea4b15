// Package main hosts the cinepick CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, wires the TMDB,
// language model, cache and history components together, and renders results
// as terminal tables or JSON. The serve command exposes the same pipeline over
// HTTP. Keep the commands thin: behaviour lives in the internal packages.
package main
