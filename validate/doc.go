// Package validate implements the client-side form rules of the campus portals.
//
// Every check returns a user-facing message, or "" when the value is acceptable.
// Form-level helpers collect messages into [Errors], keyed by the form field name the
// backend uses. A non-nil [Errors] blocks the request it guards.
//
// # Architecture boundaries
//
// The package is pure: no I/O, no session access, no clock. Callers decide what to do
// with the result (emit a notice, render the field errors, skip the request).
//
// # What this package must NOT do
//
//   - Call the API client.
//   - Normalize values other than the mobile number sanitizer.
package validate
