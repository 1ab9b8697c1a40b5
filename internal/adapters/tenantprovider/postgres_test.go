package tenantprovider_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Amund211/intralinks/internal/adapters/database"
	"github.com/Amund211/intralinks/internal/adapters/tenantprovider"
	"github.com/Amund211/intralinks/internal/domain"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestPostgresListTenants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	t.Parallel()

	ctx := t.Context()
	schemaName := "tenantprovider_test"

	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	require.NoError(t, err)

	db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schemaName)))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, database.NewDatabaseMigrator(db, logger).Migrate(ctx, schemaName))

	db.MustExec(fmt.Sprintf(
		`INSERT INTO %s.tenants (tenant_id, name, base_url, schema_name) VALUES
		('site-b', 'Site B', 'https://b.example.com', 'tenant_b'),
		('site-a', 'Site A', 'https://a.example.com', 'tenant_a')`,
		pq.QuoteIdentifier(schemaName),
	))

	provider := tenantprovider.NewPostgres(db, schemaName)

	tenants, err := provider.ListTenants(ctx)
	require.NoError(t, err)

	require.Equal(t, []domain.TenantHandle{
		{ID: "site-a", Name: "Site A", BaseURL: "https://a.example.com", Schema: "tenant_a"},
		{ID: "site-b", Name: "Site B", BaseURL: "https://b.example.com", Schema: "tenant_b"},
	}, tenants)
}
