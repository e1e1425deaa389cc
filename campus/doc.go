// Package campus holds the resources the portals work with (complaints, invites, meal
// choices, weekly schedules, feedback, chat) and the rules the client enforces on them
// before a request is sent.
//
// Values here are transient copies of server state. Nothing in this package is
// authoritative; the backend may reject what the client accepted.
//
// # Architecture boundaries
//
// campus depends on role and validate only. Wire encoding uses the backend's JSON field
// names so the API client can send and decode these types directly.
//
// # What this package must NOT do
//
//   - Perform network or storage I/O, except decoding a schedule file the caller opened.
//   - Read the session.
package campus
