package permalinks_test

import (
	"testing"

	"github.com/Amund211/intralinks/internal/adapters/permalinks"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	t.Parallel()

	resolver := permalinks.NewResolver()

	t.Run("content url", func(t *testing.T) {
		t.Parallel()

		tenant := domain.TenantHandle{ID: "1", BaseURL: "https://blog.example.com/"}
		require.Equal(t, "https://blog.example.com/?p=5", resolver.ResolveContentURL(tenant, "5"))
	})

	t.Run("content id is escaped", func(t *testing.T) {
		t.Parallel()

		tenant := domain.TenantHandle{ID: "1", BaseURL: "https://blog.example.com"}
		require.Equal(t, "https://blog.example.com/?p=a%26b", resolver.ResolveContentURL(tenant, "a&b"))
	})

	t.Run("tenant url trims trailing slash", func(t *testing.T) {
		t.Parallel()

		tenant := domain.TenantHandle{ID: "1", BaseURL: "https://blog.example.com/"}
		require.Equal(t, "https://blog.example.com", resolver.ResolveTenantURL(tenant))
	})
}
