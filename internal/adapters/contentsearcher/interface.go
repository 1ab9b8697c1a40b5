package contentsearcher

import (
	"context"

	"github.com/Amund211/intralinks/internal/domain"
)

// Searcher finds published content in one tenant store whose body contains
// any of the given substring patterns. Results are ordered by publish time
// ascending, and every hit is tagged with the tenant's ID.
type Searcher interface {
	SearchPublished(ctx context.Context, tenant domain.TenantHandle, patterns []string) ([]domain.RawHit, error)
}
