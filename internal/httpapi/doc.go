// Package httpapi serves recommendations, TMDB lookups and run history as
// JSON over HTTP.
//
// Routes under /api are rate limited per client IP. Every response carries an
// X-Request-ID header that matches the request_id field in the server logs.
// Errors are reported as {"error": "..."} with a status derived from the
// services error markers: validation 400, not found 404, upstream 502,
// timeout 504.
package httpapi
