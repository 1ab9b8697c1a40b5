package contentsearcher

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB) *Postgres {
	tracer := otel.Tracer("intralinks/contentsearcher/postgres")
	return &Postgres{
		db:     db,
		tracer: tracer,
	}
}

type dbContent struct {
	ContentID   string       `db:"content_id"`
	AuthorID    string       `db:"author_id"`
	Title       string       `db:"title"`
	Body        string       `db:"body"`
	PublishedAt sql.NullTime `db:"published_at"`
}

// searchQuery builds the per-tenant query. With one pattern the clause is a
// single substring test, with two it is an OR of the two; both forms match
// the same content for a shared pattern.
func searchQuery(schema string, patternCount int) (string, error) {
	if patternCount < 1 || patternCount > 2 {
		return "", fmt.Errorf("unsupported pattern count: %d", patternCount)
	}

	condition := "body LIKE $1"
	if patternCount == 2 {
		condition = "( body LIKE $1 OR body LIKE $2 )"
	}

	return fmt.Sprintf(`SELECT content_id, author_id, title, body, published_at
	FROM %s.content
	WHERE status = 'published' AND %s
	ORDER BY published_at ASC`,
		pq.QuoteIdentifier(schema), condition), nil
}

func (p *Postgres) SearchPublished(ctx context.Context, tenant domain.TenantHandle, patterns []string) ([]domain.RawHit, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.SearchPublished")
	defer span.End()

	nonEmpty := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern != "" {
			nonEmpty = append(nonEmpty, pattern)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, nil
	}

	query, err := searchQuery(tenant.Schema, len(nonEmpty))
	if err != nil {
		reporting.Report(ctx, err, map[string]string{
			"tenantID": tenant.ID,
		})
		return nil, err
	}

	args := make([]any, 0, len(nonEmpty))
	for _, pattern := range nonEmpty {
		args = append(args, fmt.Sprintf("%%%s%%", escapeLike(pattern)))
	}

	// Each tenant query gets its own scoped connection, released when the
	// query is done
	conn, err := p.db.Connx(ctx)
	if err != nil {
		err := fmt.Errorf("failed to acquire connection for tenant: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"tenantID": tenant.ID,
		})
		return nil, fmt.Errorf("%w: %w", domain.ErrTenantUnavailable, err)
	}
	defer conn.Close()

	var rows []dbContent
	err = conn.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		err := fmt.Errorf("failed to search tenant content: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"tenantID": tenant.ID,
		})
		return nil, fmt.Errorf("%w: %w", domain.ErrTenantUnavailable, err)
	}

	hits := make([]domain.RawHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, domain.RawHit{
			ContentID:   row.ContentID,
			Tenant:      tenant,
			AuthorID:    row.AuthorID,
			Title:       row.Title,
			Body:        row.Body,
			PublishedAt: row.PublishedAt.Time,
		})
	}

	return hits, nil
}

// LIKE treats %, _ and \ specially; the derived URLs are literals
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

var _ Searcher = (*Postgres)(nil)
