package campusdesk

import "context"

type requestOriginContextKey struct{}

// WithRequestOrigin tags ctx with the surface an operation came from ("cli",
// "gateway", "poller"). Notices emitted by the operation carry it as Origin.
func WithRequestOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, requestOriginContextKey{}, origin)
}

func requestOriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	origin, _ := ctx.Value(requestOriginContextKey{}).(string)
	return origin
}
