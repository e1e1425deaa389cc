// Package middleware implements the two portal route guards, as pure decisions and as
// net/http middleware.
//
// # Guards
//
//   - [DecideProtected] / [RequireRoles] / [RequirePortal]: admit only an authenticated
//     session whose role is in an allowed set.
//   - [DecidePublic] / [PublicOnly]: send an authenticated session away from pages meant
//     for signed-out users, to its role's dashboard.
//
// The HTTP forms answer a deferred decision with a placeholder (200 with Retry-After)
// and a redirect with 303 See Other. An admitted request carries its session in the
// context; see [SessionFromContext].
//
// # Architecture boundaries
//
// Guards read a session through [Source] and never change it. Decisions are computed
// by pure functions so they can be tested without a server.
//
// # What this package must NOT do
//
//   - Dispatch session actions (login, logout).
//   - Call the backend API.
package middleware
