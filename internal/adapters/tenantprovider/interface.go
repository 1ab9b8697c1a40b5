package tenantprovider

import (
	"context"

	"github.com/Amund211/intralinks/internal/domain"
)

// Provider enumerates every tenant store on the platform.
//
// NOTE: ListTenants can be very slow on large platforms. It must only ever be
// called from a background job, never inline with a page render.
type Provider interface {
	ListTenants(ctx context.Context) ([]domain.TenantHandle, error)
}
