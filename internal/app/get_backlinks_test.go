package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Amund211/intralinks/internal/adapters/cache"
	"github.com/Amund211/intralinks/internal/adapters/scheduler"
	"github.com/Amund211/intralinks/internal/adapters/tenantprovider"
	"github.com/Amund211/intralinks/internal/app"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/domaintest"
	"github.com/Amund211/intralinks/internal/render"
	"github.com/Amund211/intralinks/internal/urlkeys"
	"github.com/stretchr/testify/require"
)

func newBacklinkCacheForTest(t *testing.T) *cache.SWR[[]domain.BacklinkRecord] {
	t.Helper()

	store := cache.NewMemory[[]domain.BacklinkRecord](0)
	t.Cleanup(store.Stop)

	return cache.NewSWR(store, scheduler.NewSynchronous(context.Background()), cache.SWROptions[[]domain.BacklinkRecord]{
		TTL:     time.Hour,
		IsEmpty: func(records []domain.BacklinkRecord) bool { return len(records) == 0 },
	})
}

func TestBuildGetBacklinksMarkup(t *testing.T) {
	t.Parallel()

	tenant := domaintest.NewTenantHandle("a")

	newOrchestrator := func(
		t *testing.T,
		searcher *mockSearcher,
		options app.OrchestratorOptions,
	) app.GetBacklinksMarkup {
		t.Helper()

		profiles := &mockProfileProvider{
			t: t,
			profilesByID: map[string]domain.Profile{
				"author-1": {AuthorID: "author-1", Email: "one@example.com", DisplayName: "One"},
			},
		}

		return app.BuildGetBacklinksMarkup(
			urlkeys.NewDeriver(nil),
			newBacklinkCacheForTest(t),
			app.BuildSearchBacklinks(tenantprovider.NewStatic([]domain.TenantHandle{tenant}), searcher, 1),
			app.BuildNormalizeHits(profiles, testResolver{}, app.NormalizerOptions{}),
			render.NewRenderer(render.Options{}),
			render.ContextAssetLoader{},
			options,
		)
	}

	t.Run("item without urls returns empty and queries no tenant", func(t *testing.T) {
		t.Parallel()

		searcher := &mockSearcher{t: t}
		getBacklinks := newOrchestrator(t, searcher, app.OrchestratorOptions{})

		item := domaintest.NewContentItemBuilder("5").Build()

		markup := getBacklinks(t.Context(), item)
		require.Empty(t, markup)
		require.Equal(t, 0, searcher.searchCount)
	})

	t.Run("end to end: miss, background refresh, then one rendered entry", func(t *testing.T) {
		t.Parallel()

		hit := domaintest.NewRawHitBuilder("9", tenant).
			WithAuthorID("author-1").
			WithTitle("Linking post").
			WithBody("see example.com/post/5 for details").
			Build()
		searcher := &mockSearcher{
			t: t,
			hitsByTenant: map[string][]domain.RawHit{
				tenant.ID: {hit},
			},
		}
		getBacklinks := newOrchestrator(t, searcher, app.OrchestratorOptions{})

		item := domaintest.NewContentItemBuilder("5").
			WithPermalink("https://example.com/post/5").
			Build()

		ctx := render.WithAssetTracking(t.Context())

		// First call misses; the (synchronous, test-only) background job
		// populates the cache
		markup := getBacklinks(ctx, item)
		require.Empty(t, markup)
		require.False(t, render.AssetsLoaded(ctx))
		require.Equal(t, 1, searcher.searchCount)
		require.Equal(t, [][]string{{"example.com/post/5"}}, searcher.seenPatterns)

		markup = getBacklinks(ctx, item)
		require.Contains(t, markup, "1 link to this post")
		require.Contains(t, markup, tenant.BaseURL+"/?p=9")
		require.Contains(t, markup, "Linking post")
		require.Equal(t, 1, strings.Count(markup, "<li"))
		require.True(t, render.AssetsLoaded(ctx))

		// Served from cache; no extra fan-out
		require.Equal(t, 1, searcher.searchCount)
	})

	t.Run("no hits renders nothing and loads no assets", func(t *testing.T) {
		t.Parallel()

		searcher := &mockSearcher{t: t}
		getBacklinks := newOrchestrator(t, searcher, app.OrchestratorOptions{})

		item := domaintest.NewContentItemBuilder("5").
			WithPermalink("https://example.com/post/5").
			Build()

		ctx := render.WithAssetTracking(t.Context())

		require.Empty(t, getBacklinks(ctx, item))
		require.Empty(t, getBacklinks(ctx, item))
		require.False(t, render.AssetsLoaded(ctx))
	})

	t.Run("show hook disables backlinks entirely", func(t *testing.T) {
		t.Parallel()

		searcher := &mockSearcher{t: t}
		getBacklinks := newOrchestrator(t, searcher, app.OrchestratorOptions{
			Show: func(ctx context.Context, item domain.ContentItem) bool {
				return false
			},
		})

		item := domaintest.NewContentItemBuilder("5").
			WithPermalink("https://example.com/post/5").
			Build()

		require.Empty(t, getBacklinks(t.Context(), item))
		require.Equal(t, 0, searcher.searchCount)
	})

	t.Run("suppressed context never recurses into the pipeline", func(t *testing.T) {
		t.Parallel()

		searcher := &mockSearcher{t: t}
		getBacklinks := newOrchestrator(t, searcher, app.OrchestratorOptions{})

		item := domaintest.NewContentItemBuilder("5").
			WithPermalink("https://example.com/post/5").
			Build()

		ctx := render.SuppressBacklinks(t.Context())
		require.Empty(t, getBacklinks(ctx, item))
		require.Equal(t, 0, searcher.searchCount)
	})
}
