package render

import "context"

type suppressBacklinksContextKey struct{}

// SuppressBacklinks marks the context so that re-rendering an embedded body
// can't recursively append backlinks to it.
func SuppressBacklinks(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressBacklinksContextKey{}, true)
}

func BacklinksSuppressed(ctx context.Context) bool {
	suppressed, ok := ctx.Value(suppressBacklinksContextKey{}).(bool)
	return ok && suppressed
}
