package profileprovider

import (
	"context"

	"github.com/Amund211/intralinks/internal/domain"
)

// Provider resolves an author's profile by ID. Returns
// domain.ErrAuthorNotFound when the ID does not resolve.
type Provider interface {
	GetProfile(ctx context.Context, authorID string) (domain.Profile, error)
}
