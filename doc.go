// Package campusdesk is the client side of the campus-management portals: a session
// store with reducer-style transitions, role-gated navigation, an API client that
// carries the persisted bearer token, and the complaint, invite, meal and feedback
// operations with the rules the portals enforce before anything is sent.
//
// A [Desk] is assembled once through [Builder.Build] and is then safe to use from
// multiple goroutines: the CLI, the local portal gateway and the background pollers all
// drive the same Desk.
//
// # Architecture boundaries
//
// campusdesk is the public surface. It exposes [Desk], [Builder], [Config], [Notice] and
// [Metrics]. Session state lives in the session package, wire types in campus, HTTP in
// api and route decisions in middleware. Timers and the gateway live under internal/
// and depend on this package, never the other way round.
//
// # What this package must NOT do
//
//   - Implement backend behavior: every authoritative decision belongs to the server.
//   - Retry, back off or deduplicate requests.
//   - Keep a session after any 401 response.
//   - Send a request that a local rule has already refused.
package campusdesk
