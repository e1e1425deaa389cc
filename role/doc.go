// Package role defines the closed set of campus roles, the four portals they sign in
// through, and the pure lookups derived from them: the default landing route per role,
// the navigation menu per portal, and the role sets route guards admit.
//
// # Spelling
//
// The backend and older clients mix hyphen and underscore spellings ("super-admin",
// "super_admin"). [Parse] and [NewSet] normalize both to the underscore form, so every
// comparison in this module is made between normalized [Role] values.
//
// # Architecture boundaries
//
// This package is a pure in-memory lookup with no I/O.
//
// # What this package must NOT do
//
//   - Access the session store, the network, or storage.
//   - Import campusdesk, session, api, or middleware.
package role
