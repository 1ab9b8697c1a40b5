package render

import (
	"context"
	"crypto/md5"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/strutils"
)

const DEFAULT_FAVICON_URL_TEMPLATE = "https://www.google.com/s2/favicons?domain=%s"
const AVATAR_URL_TEMPLATE = "https://www.gravatar.com/avatar/%x?s=20"

// ContentHook expands embedded shortcodes/media in a record's body the same
// way the platform renders any other content. The hook receives a context
// where backlink appending is suppressed, so it can't recurse back into us.
type ContentHook func(ctx context.Context, body string) string

// AssetLoader is told when rendered output actually exists, so supporting
// static assets are only loaded for pages that show backlinks.
type AssetLoader interface {
	Load(ctx context.Context)
}

type Options struct {
	// Favicon service URL template; %s receives the URL-escaped permalink
	// host. Defaults to DEFAULT_FAVICON_URL_TEMPLATE.
	FaviconURLTemplate string
	// Optional hook to expand embedded content in body previews. The raw
	// (balanced) body is used when unset.
	ContentHook ContentHook
	// NowFunc defaults to time.Now.
	NowFunc func() time.Time
}

type Renderer struct {
	faviconURLTemplate string
	contentHook        ContentHook
	nowFunc            func() time.Time
}

func NewRenderer(options Options) *Renderer {
	faviconURLTemplate := options.FaviconURLTemplate
	if faviconURLTemplate == "" {
		faviconURLTemplate = DEFAULT_FAVICON_URL_TEMPLATE
	}
	nowFunc := options.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}

	return &Renderer{
		faviconURLTemplate: faviconURLTemplate,
		contentHook:        options.ContentHook,
		nowFunc:            nowFunc,
	}
}

var fragmentTemplate = template.Must(template.New("intralinks").Parse(`<div class='intralinks'><p class='intralinks-count'>{{.Summary}}</p><ul>{{range .Links}}<li class='{{.Class}}'><img height='20' width='20' class='avatar' src='{{.AvatarURL}}'> <img height='12' width='12' class='intralink-blavatar' src='{{.FaviconURL}}'> <span class='intralink-date'>{{.Date}}</span> <a href='#' class='intralink-content-preview'>Preview</a> <a href='{{.Permalink}}'>{{.Title}}</a><div class='intralink-content'>{{.Content}}</div></li>{{end}}</ul></div>`))

type fragmentData struct {
	Summary string
	Links   []linkData
}

type linkData struct {
	Class      string
	AvatarURL  string
	FaviconURL string
	Date       string
	Permalink  string
	Title      string
	Content    template.HTML
}

// Render produces the display fragment for records: a count summary and one
// list entry per record. Records with an unresolvable date are still
// rendered, just without date styling.
func (r *Renderer) Render(ctx context.Context, records []domain.BacklinkRecord, item domain.ContentItem) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	currentYear := r.nowFunc().Year()

	// If any result needs a year on its date, every list item gets the
	// wider styling so the column lines up
	withYears := false
	for _, record := range records {
		if !record.PublishedAt.IsZero() && record.PublishedAt.Year() != currentYear {
			withYears = true
			break
		}
	}

	liClass := "intralink-to-thread"
	if withYears {
		liClass = "intralink-to-thread intralink-dates-with-years"
	}

	links := make([]linkData, 0, len(records))
	for _, record := range records {
		links = append(links, linkData{
			Class:      liClass,
			AvatarURL:  avatarURL(record.AuthorEmail),
			FaviconURL: r.faviconURL(record.Permalink),
			Date:       r.shortDate(record.PublishedAt, currentYear),
			Permalink:  record.Permalink,
			Title:      record.Title,
			Content:    template.HTML(r.renderBody(ctx, record.Body)),
		})
	}

	data := fragmentData{
		Summary: summaryLine(len(records), item),
		Links:   links,
	}

	var builder strings.Builder
	if err := fragmentTemplate.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("failed to render backlinks fragment: %w", err)
	}

	return builder.String(), nil
}

func summaryLine(count int, item domain.ContentItem) string {
	noun := "links"
	if count == 1 {
		noun = "link"
	}
	kind := strings.ToLower(item.Kind)
	if kind == "" {
		kind = "post"
	}
	return fmt.Sprintf("%d %s to this %s", count, noun, kind)
}

func (r *Renderer) shortDate(publishedAt time.Time, currentYear int) string {
	if publishedAt.IsZero() {
		return ""
	}

	date := publishedAt.Format("Jan 2")
	if publishedAt.Year() != currentYear {
		date += publishedAt.Format(", 2006")
	}
	return date
}

func (r *Renderer) faviconURL(permalink string) string {
	host := strutils.URLHost(permalink)
	return fmt.Sprintf(r.faviconURLTemplate, url.QueryEscape(host))
}

func avatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return fmt.Sprintf(AVATAR_URL_TEMPLATE, md5.Sum([]byte(normalized)))
}

// renderBody expands embedded content through the platform hook, with
// backlink appending suppressed so the hook can't recurse back here.
func (r *Renderer) renderBody(ctx context.Context, body string) string {
	if r.contentHook == nil {
		return body
	}
	return r.contentHook(SuppressBacklinks(ctx), body)
}
