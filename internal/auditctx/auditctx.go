package auditctx

import "context"

// Origin describes where a request came from, for attaching to audit records.
type Origin struct {
	RequestID string
	IPAddress string
	UserAgent string
}

type originContextKey struct{}

// WithOrigin returns a derived context carrying origin metadata.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, originContextKey{}, origin)
}

// FromContext extracts previously stored origin metadata.
func FromContext(ctx context.Context) (Origin, bool) {
	if ctx == nil {
		return Origin{}, false
	}
	origin, ok := ctx.Value(originContextKey{}).(Origin)
	return origin, ok
}
