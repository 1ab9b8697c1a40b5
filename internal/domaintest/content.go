package domaintest

import (
	"time"

	"github.com/Amund211/intralinks/internal/domain"
)

type contentItemBuilder struct {
	item *domain.ContentItem
}

func (b *contentItemBuilder) WithPermalink(permalink string) *contentItemBuilder {
	b.item.Permalink = permalink
	return b
}

func (b *contentItemBuilder) WithShortlink(shortlink string) *contentItemBuilder {
	b.item.Shortlink = shortlink
	return b
}

func (b *contentItemBuilder) WithKind(kind string) *contentItemBuilder {
	b.item.Kind = kind
	return b
}

func (b *contentItemBuilder) Build() domain.ContentItem {
	return *b.item
}

func NewContentItemBuilder(id string) *contentItemBuilder {
	item := &domain.ContentItem{
		ID:       id,
		AuthorID: "author-" + id,
		TenantID: "tenant-1",
	}
	return &contentItemBuilder{item: item}
}

type rawHitBuilder struct {
	hit *domain.RawHit
}

func (b *rawHitBuilder) WithAuthorID(authorID string) *rawHitBuilder {
	b.hit.AuthorID = authorID
	return b
}

func (b *rawHitBuilder) WithTitle(title string) *rawHitBuilder {
	b.hit.Title = title
	return b
}

func (b *rawHitBuilder) WithBody(body string) *rawHitBuilder {
	b.hit.Body = body
	return b
}

func (b *rawHitBuilder) WithPublishedAt(publishedAt time.Time) *rawHitBuilder {
	b.hit.PublishedAt = publishedAt
	return b
}

func (b *rawHitBuilder) Build() domain.RawHit {
	return *b.hit
}

func NewRawHitBuilder(contentID string, tenant domain.TenantHandle) *rawHitBuilder {
	hit := &domain.RawHit{
		ContentID:   contentID,
		Tenant:      tenant,
		AuthorID:    "author-" + contentID,
		Title:       "Title " + contentID,
		Body:        "body " + contentID,
		PublishedAt: time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC),
	}
	return &rawHitBuilder{hit: hit}
}

func NewTenantHandle(id string) domain.TenantHandle {
	return domain.TenantHandle{
		ID:      id,
		Name:    "Tenant " + id,
		BaseURL: "https://" + id + ".example.com",
		Schema:  "tenant_" + id,
	}
}
