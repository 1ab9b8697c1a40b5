package domain

import "time"

// ContentItem is an immutable snapshot of the content whose backlinks we are
// looking up. It is owned by the caller, not by this service.
type ContentItem struct {
	ID        string
	Permalink string
	Shortlink string
	AuthorID  string
	TenantID  string
	// Kind is the content type's singular name, e.g. "post" or "page"
	Kind string
}

// TenantHandle identifies one independent content store on the platform.
type TenantHandle struct {
	ID      string
	Name    string
	BaseURL string
	Schema  string
}

// RawHit is one matching row from a tenant store, tagged with the tenant it
// came from. It only lives for the duration of one fan-out search.
type RawHit struct {
	ContentID   string
	Tenant      TenantHandle
	AuthorID    string
	Title       string
	Body        string
	PublishedAt time.Time
}

// BacklinkRecord is the normalized, renderer-facing unit.
type BacklinkRecord struct {
	AuthorEmail string
	AuthorName  string
	Title       string
	Body        string
	PublishedAt time.Time
	Permalink   string
}

type Profile struct {
	AuthorID    string
	Email       string
	DisplayName string
}
