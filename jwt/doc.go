// Package jwt reads the claims carried by the backend-issued session token: user id,
// role, display name and expiry. By default claims are decoded without signature
// verification, because the client only uses them to decide where to route and when a
// persisted session is stale; the backend remains the authority on every request. When a
// verification key is configured, tokens are fully verified.
package jwt
