package render

import (
	"context"
	"sync/atomic"
)

type assetTrackingContextKey struct{}

// WithAssetTracking returns a context that records whether supporting assets
// were requested during a render.
func WithAssetTracking(ctx context.Context) context.Context {
	return context.WithValue(ctx, assetTrackingContextKey{}, &atomic.Bool{})
}

func AssetsLoaded(ctx context.Context) bool {
	flag, ok := ctx.Value(assetTrackingContextKey{}).(*atomic.Bool)
	return ok && flag.Load()
}

// ContextAssetLoader marks the request context when assets are needed. The
// HTTP layer reads the mark to decide whether to emit stylesheet/script tags.
type ContextAssetLoader struct{}

func (ContextAssetLoader) Load(ctx context.Context) {
	flag, ok := ctx.Value(assetTrackingContextKey{}).(*atomic.Bool)
	if ok {
		flag.Store(true)
	}
}

var _ AssetLoader = ContextAssetLoader{}
