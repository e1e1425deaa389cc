// Package web serves the portals over HTTP: the public pages, the role-guarded portal
// areas and the health and metrics endpoints. Pages are JSON view models rendered from
// the desk.
//
// # Architecture boundaries
//
// Routing uses chi. Access decisions come from the middleware package; this package
// only maps portal areas onto guards and desk operations onto handlers. Every request
// context is tagged with the "gateway" origin so notices can be traced to it.
//
// # What this package must NOT do
//
//   - Decide access itself instead of calling the guards.
//   - Talk to the backend except through the desk.
//   - Render a protected page while the session is loading.
package web
