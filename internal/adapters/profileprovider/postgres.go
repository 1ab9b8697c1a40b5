package profileprovider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Amund211/intralinks/internal/domain"
	"github.com/Amund211/intralinks/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("intralinks/profileprovider/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbProfile struct {
	AuthorID    string `db:"author_id"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
}

func (p *Postgres) GetProfile(ctx context.Context, authorID string) (domain.Profile, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetProfile")
	defer span.End()

	if authorID == "" {
		return domain.Profile{}, fmt.Errorf("%w: empty author id", domain.ErrAuthorNotFound)
	}

	var profile dbProfile
	err := p.db.GetContext(
		ctx,
		&profile,
		fmt.Sprintf(`SELECT author_id, email, display_name
		FROM %s.profiles
		WHERE author_id = $1`,
			pq.QuoteIdentifier(p.schema)),
		authorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrAuthorNotFound, authorID)
	}
	if err != nil {
		err := fmt.Errorf("failed to get profile: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"authorID": authorID,
		})
		return domain.Profile{}, err
	}

	return domain.Profile{
		AuthorID:    profile.AuthorID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
	}, nil
}

var _ Provider = (*Postgres)(nil)
