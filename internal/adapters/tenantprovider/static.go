package tenantprovider

import (
	"context"
	"slices"

	"github.com/Amund211/intralinks/internal/domain"
)

// Static serves a fixed tenant list. Used for tenant-list overrides and in
// tests.
type Static struct {
	tenants []domain.TenantHandle
}

func NewStatic(tenants []domain.TenantHandle) *Static {
	return &Static{tenants: tenants}
}

func (s *Static) ListTenants(ctx context.Context) ([]domain.TenantHandle, error) {
	return slices.Clone(s.tenants), nil
}

var _ Provider = (*Static)(nil)
