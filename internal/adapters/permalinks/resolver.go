package permalinks

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Amund211/intralinks/internal/domain"
)

// Resolver builds canonical URLs from a tenant's base URL.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveContentURL returns the absolute URL for a piece of content on the
// given tenant.
func (r *Resolver) ResolveContentURL(tenant domain.TenantHandle, contentID string) string {
	return fmt.Sprintf("%s/?p=%s", r.ResolveTenantURL(tenant), url.QueryEscape(contentID))
}

func (r *Resolver) ResolveTenantURL(tenant domain.TenantHandle) string {
	return strings.TrimRight(tenant.BaseURL, "/")
}
