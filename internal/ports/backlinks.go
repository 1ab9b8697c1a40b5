package ports

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Amund211/intralinks/internal/app"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/logging"
	"github.com/Amund211/intralinks/internal/ratelimiting"
	"github.com/Amund211/intralinks/internal/render"
	"github.com/Amund211/intralinks/internal/reporting"
)

// MakeGetBacklinksHandler serves the rendered backlinks fragment for a single
// content item. The caller passes the item's identity and URLs as query
// parameters; an empty result is a 204, never an error.
func MakeGetBacklinksHandler(
	getBacklinksMarkup app.GetBacklinksMarkup,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(8),
		ratelimiting.BurstSize(480),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(ipLimiter, ratelimiting.IPKeyFunc)

	onLimitExceeded := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}

	middleware := ComposeMiddlewares(
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("getbacklinks"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
		buildMetricsMiddleware(),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := r.URL.Query()
		item := domain.ContentItem{
			ID:        query.Get("id"),
			Permalink: query.Get("permalink"),
			Shortlink: query.Get("shortlink"),
			Kind:      query.Get("kind"),
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.String("contentId", item.ID),
			slog.String("permalink", item.Permalink),
		)
		ctx = reporting.AddExtrasToContext(ctx,
			map[string]string{
				"contentId": item.ID,
				"permalink": item.Permalink,
			},
		)

		if item.ID == "" || len(item.ID) > 100 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		ctx = render.WithAssetTracking(ctx)

		markup := getBacklinksMarkup(ctx, item)
		if markup == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		body := markup
		if render.AssetsLoaded(ctx) {
			body = assetTags() + body
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}

	return middleware(handler)
}
