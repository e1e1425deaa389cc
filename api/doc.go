// Package api is the HTTP client for the campus REST backend.
//
// Every call is a single request: no retry, no backoff, no deduplication. The client
// attaches the bearer token of the current session to every request that is not
// public, stamps an X-Request-ID, and reports 401 responses to an unauthorized hook so
// the owner can drop the session.
//
// Non-2xx responses are returned as [*Error] wrapped in an oops error whose code is
// API_<STATUS>. [Message] extracts the user-facing text, falling back to the per-call
// generic message when the backend sent none.
//
// # Architecture boundaries
//
// The client reads the token through [TokenSource] and never writes session state
// itself; the unauthorized hook is the only path from a response back to the session.
//
// # What this package must NOT do
//
//   - Retry failed requests.
//   - Validate forms; callers validate before calling.
//   - Navigate or render.
package api
