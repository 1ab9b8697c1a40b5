package app

import (
	"context"
	"fmt"

	"github.com/Amund211/intralinks/internal/adapters/cache"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/render"
	"github.com/Amund211/intralinks/internal/reporting"
	"github.com/Amund211/intralinks/internal/urlkeys"
)

// Cache keys are grouped so unrelated users of a shared store can't collide
const CACHE_GROUP = "intralinks"

// GetBacklinksMarkup is the sole entry point for page-rendering callers.
// Returns an empty string when there is nothing to show; it never errors and
// never blocks on the fan-out search.
type GetBacklinksMarkup func(ctx context.Context, item domain.ContentItem) string

type backlinkRenderer interface {
	Render(ctx context.Context, records []domain.BacklinkRecord, item domain.ContentItem) (string, error)
}

// ShowBacklinksHook decides per request whether backlinks are shown at all.
type ShowBacklinksHook func(ctx context.Context, item domain.ContentItem) bool

type OrchestratorOptions struct {
	// Show defaults to always-on
	Show ShowBacklinksHook
}

func CacheKey(item domain.ContentItem) string {
	return CACHE_GROUP + item.ID
}

func BuildGetBacklinksMarkup(
	deriver *urlkeys.Deriver,
	backlinkCache *cache.SWR[[]domain.BacklinkRecord],
	search SearchBacklinks,
	normalize NormalizeHits,
	renderer backlinkRenderer,
	assets render.AssetLoader,
	options OrchestratorOptions,
) GetBacklinksMarkup {
	return func(ctx context.Context, item domain.ContentItem) string {
		if render.BacklinksSuppressed(ctx) {
			// We're inside our own preview re-render; don't recurse
			return ""
		}

		if options.Show != nil && !options.Show(ctx, item) {
			return ""
		}

		keySet := deriver.Derive(item)
		if keySet.Empty() {
			// Nothing to search for; don't even touch the cache
			return ""
		}

		records := backlinkCache.Get(ctx, CacheKey(item), func(jobCtx context.Context) ([]domain.BacklinkRecord, error) {
			hits, err := search(jobCtx, keySet)
			if err != nil {
				return nil, fmt.Errorf("backlink search failed: %w", err)
			}
			return normalize(jobCtx, hits), nil
		})
		if len(records) == 0 {
			return ""
		}

		markup, err := renderer.Render(ctx, records, item)
		if err != nil {
			// The page render must never fail because of us
			reporting.Report(ctx, fmt.Errorf("failed to render backlinks: %w", err), map[string]string{
				"contentID": item.ID,
			})
			return ""
		}
		if markup == "" {
			return ""
		}

		assets.Load(ctx)

		return markup
	}
}
