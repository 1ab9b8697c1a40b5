package render_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	return func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func recordForTest(publishedAt time.Time) domain.BacklinkRecord {
	return domain.BacklinkRecord{
		AuthorEmail: "one@example.com",
		AuthorName:  "One",
		Title:       "A linking post",
		Body:        "<p>preview body</p>",
		PublishedAt: publishedAt,
		Permalink:   "https://a.example.com/?p=9",
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	item := domain.ContentItem{ID: "5"}

	t.Run("empty records render nothing", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{NowFunc: fixedNow(t)})

		markup, err := renderer.Render(ctx, nil, item)
		require.NoError(t, err)
		require.Empty(t, markup)
	})

	t.Run("single current-year record", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{NowFunc: fixedNow(t)})

		record := recordForTest(time.Date(2024, time.March, 7, 10, 0, 0, 0, time.UTC))

		markup, err := renderer.Render(ctx, []domain.BacklinkRecord{record}, item)
		require.NoError(t, err)

		assert.Contains(t, markup, "1 link to this post")
		assert.Contains(t, markup, ">Mar 7<")
		assert.NotContains(t, markup, "2024")
		assert.NotContains(t, markup, "intralink-dates-with-years")
		assert.Contains(t, markup, "class='intralink-to-thread'")
		assert.Contains(t, markup, "https://a.example.com/?p=9")
		assert.Contains(t, markup, "A linking post")
		assert.Contains(t, markup, "<p>preview body</p>")
	})

	t.Run("plural summary uses lowercased item kind", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{NowFunc: fixedNow(t)})

		records := []domain.BacklinkRecord{
			recordForTest(time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)),
			recordForTest(time.Date(2024, time.April, 8, 0, 0, 0, 0, time.UTC)),
		}

		markup, err := renderer.Render(ctx, records, domain.ContentItem{ID: "5", Kind: "Page"})
		require.NoError(t, err)

		assert.Contains(t, markup, "2 links to this page")
	})

	t.Run("one old record widens every date", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{NowFunc: fixedNow(t)})

		records := []domain.BacklinkRecord{
			recordForTest(time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)),
			recordForTest(time.Date(2021, time.December, 24, 0, 0, 0, 0, time.UTC)),
		}

		markup, err := renderer.Render(ctx, records, item)
		require.NoError(t, err)

		assert.Contains(t, markup, ">Dec 24, 2021<")
		assert.Contains(t, markup, ">Mar 7<")
		assert.Equal(t, 2, strings.Count(markup, "intralink-dates-with-years"))
	})

	t.Run("zero publish time renders an empty date", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{NowFunc: fixedNow(t)})

		record := recordForTest(time.Time{})

		markup, err := renderer.Render(ctx, []domain.BacklinkRecord{record}, item)
		require.NoError(t, err)

		assert.Contains(t, markup, "<span class='intralink-date'></span>")
		assert.NotContains(t, markup, "intralink-dates-with-years")
	})

	t.Run("avatar and favicon urls", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{NowFunc: fixedNow(t)})

		record := recordForTest(time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC))
		record.AuthorEmail = " One@Example.com "

		markup, err := renderer.Render(ctx, []domain.BacklinkRecord{record}, item)
		require.NoError(t, err)

		// Hash of the trimmed, lowercased address
		assert.Contains(t, markup, "https://www.gravatar.com/avatar/0cc33cd6c40a4c2e0a5d685dcb829181?s=20")
		assert.Contains(t, markup, "https://www.google.com/s2/favicons?domain=a.example.com")
	})

	t.Run("custom favicon template", func(t *testing.T) {
		t.Parallel()

		renderer := render.NewRenderer(render.Options{
			FaviconURLTemplate: "https://icons.invalid/%s.ico",
			NowFunc:            fixedNow(t),
		})

		record := recordForTest(time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC))

		markup, err := renderer.Render(ctx, []domain.BacklinkRecord{record}, item)
		require.NoError(t, err)

		assert.Contains(t, markup, "https://icons.invalid/a.example.com.ico")
	})

	t.Run("content hook runs with backlinks suppressed", func(t *testing.T) {
		t.Parallel()

		hookCalls := 0
		renderer := render.NewRenderer(render.Options{
			ContentHook: func(hookCtx context.Context, body string) string {
				hookCalls++
				require.True(t, render.BacklinksSuppressed(hookCtx))
				return strings.ToUpper(body)
			},
			NowFunc: fixedNow(t),
		})

		record := recordForTest(time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC))

		markup, err := renderer.Render(ctx, []domain.BacklinkRecord{record}, item)
		require.NoError(t, err)

		assert.Equal(t, 1, hookCalls)
		assert.Contains(t, markup, "<P>PREVIEW BODY</P>")
	})
}

func TestAssetTracking(t *testing.T) {
	t.Parallel()

	t.Run("load marks a tracked context", func(t *testing.T) {
		t.Parallel()

		ctx := render.WithAssetTracking(context.Background())
		require.False(t, render.AssetsLoaded(ctx))

		render.ContextAssetLoader{}.Load(ctx)
		require.True(t, render.AssetsLoaded(ctx))
	})

	t.Run("load on an untracked context is a no-op", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		render.ContextAssetLoader{}.Load(ctx)
		require.False(t, render.AssetsLoaded(ctx))
	})
}
