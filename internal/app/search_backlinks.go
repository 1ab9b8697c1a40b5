package app

import (
	"context"
	"fmt"

	"github.com/Amund211/intralinks/internal/adapters/contentsearcher"
	"github.com/Amund211/intralinks/internal/adapters/tenantprovider"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/logging"
	"github.com/Amund211/intralinks/internal/reporting"
	"github.com/Amund211/intralinks/internal/urlkeys"
	"golang.org/x/sync/errgroup"
)

// SearchBacklinks fans the substring query out over every tenant store and
// aggregates the hits in tenant-enumeration order.
//
// This is the single most expensive operation in the pipeline: it must only
// ever run from a background job, never inline with a page render.
type SearchBacklinks func(ctx context.Context, keySet urlkeys.KeySet) ([]domain.RawHit, error)

const DEFAULT_TENANT_PARALLELISM = 8

func BuildSearchBacklinks(
	tenants tenantprovider.Provider,
	searcher contentsearcher.Searcher,
	tenantParallelism int,
) SearchBacklinks {
	if tenantParallelism <= 0 {
		tenantParallelism = DEFAULT_TENANT_PARALLELISM
	}

	return func(ctx context.Context, keySet urlkeys.KeySet) ([]domain.RawHit, error) {
		if keySet.Empty() {
			return nil, nil
		}

		handles, err := tenants.ListTenants(ctx)
		if err != nil {
			// NOTE: tenantprovider implementations handle their own error reporting
			return nil, fmt.Errorf("could not list tenants: %w", err)
		}

		patterns := keySet.Patterns()

		// Each tenant accumulates into its own slot; the ordered merge below
		// keeps tenant-enumeration order without shared mutable state
		hitsByTenant := make([][]domain.RawHit, len(handles))

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(tenantParallelism)
		for i, tenant := range handles {
			group.Go(func() error {
				hits, err := searcher.SearchPublished(groupCtx, tenant, patterns)
				if err != nil {
					// One failing tenant must not abort the fan-out
					logging.FromContext(groupCtx).WarnContext(groupCtx,
						"Skipping tenant: search failed",
						"tenantID", tenant.ID,
						"error", err.Error(),
					)
					reporting.Report(groupCtx, fmt.Errorf("tenant search failed: %w", err), map[string]string{
						"tenantID": tenant.ID,
					})
					return nil
				}
				hitsByTenant[i] = hits
				return nil
			})
		}
		// Workers never return errors; per-tenant failures are absorbed above
		_ = group.Wait()

		var aggregated []domain.RawHit
		for _, hits := range hitsByTenant {
			aggregated = append(aggregated, hits...)
		}

		return aggregated, nil
	}
}
