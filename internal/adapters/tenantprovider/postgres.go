package tenantprovider

import (
	"context"
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
	tracer := otel.Tracer("intralinks/tenantprovider/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbTenant struct {
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
	BaseURL  string `db:"base_url"`
	Schema   string `db:"schema_name"`
}

func (p *Postgres) ListTenants(ctx context.Context) ([]domain.TenantHandle, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListTenants")
	defer span.End()

	var tenants []dbTenant
	err := p.db.SelectContext(
		ctx,
		&tenants,
		fmt.Sprintf(`SELECT tenant_id, name, base_url, schema_name
		FROM %s.tenants
		ORDER BY tenant_id`,
			pq.QuoteIdentifier(p.schema)),
	)
	if err != nil {
		err := fmt.Errorf("failed to list tenants: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	handles := make([]domain.TenantHandle, 0, len(tenants))
	for _, tenant := range tenants {
		handles = append(handles, domain.TenantHandle{
			ID:      tenant.TenantID,
			Name:    tenant.Name,
			BaseURL: tenant.BaseURL,
			Schema:  tenant.Schema,
		})
	}

	return handles, nil
}

var _ Provider = (*Postgres)(nil)
