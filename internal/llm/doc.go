// Package llm provides the language model clients that turn a user's movie
// preference into a list of candidate titles.
//
// Two providers are supported: Gemini's generateContent REST API (the
// default) and any OpenAI-compatible chat completion endpoint. Both return
// plain text. Transient failures (408, 429, 5xx, empty replies, network
// timeouts) are retried with exponential backoff when more than one attempt is
// configured; anything else is returned immediately as a typed error.
//
// Clients are constructed explicitly from a Config and passed to their users.
package llm
