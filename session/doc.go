// Package session holds the client's authenticated identity and drives it through a
// reducer-style state machine: Pending, Fulfilled and Rejected actions for login,
// registration and password reset, an explicit Logout, and Clear for dismissing an
// advisory error.
//
// # Persistence
//
// The identity and token survive restarts through a [Storage] backend, a small
// key/value store with per-key expiry: [FileStorage] (default, watched with fsnotify so
// a logout in another process is observed), [RedisStorage] for profiles shared across
// machines, and [MemoryStorage] for tests. Only identity fields are persisted; loading,
// error and success flags are transient.
//
// Sessions are stored in a compact binary format with a leading schema version byte.
//
// # Architecture boundaries
//
// This package owns the [Store] and the [Session] model. It does NOT decode tokens or
// perform network calls; callers hand it an [Identity] already extracted from a backend
// response.
//
// # What this package must NOT do
//
//   - Import campusdesk, api, or middleware (no upward imports).
//   - Persist the transient Loading/Error/Success flags.
//   - Leave a token without a role, or a role without a token.
package session
