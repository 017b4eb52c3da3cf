package empresas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seedYAML = `
report_configs:
  - name: Ventas
    tenant_id: t1
    app_client_id: app1
    app_client_secret: s1
    workspace_id: ws1
    report_id: r1
    pbi_username: u
    pbi_password: p
    es_privado: true
  - name: Stock
    tenant_id: t1
    app_client_id: app1
    app_client_secret: s1
    workspace_id: ws2
    report_id: r2
    pbi_username: u
    pbi_password: p
    es_privado: true
empresas:
  - nombre: Acme
    cuit: "20-12345678-9"
    client_id: acme-client
    client_secret: acme-secret
    reports: [Ventas]
`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeedFromFile(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	log := zap.NewNop().Sugar()

	require.NoError(t, SeedFromFile(ctx, s, writeSeed(t, seedYAML), log))

	configs, err := s.ListReportConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	e, err := s.GetEmpresaByClientID(ctx, "acme-client")
	require.NoError(t, err)
	assert.Equal(t, "Acme", e.Nombre)

	ids, err := s.ListAssociations(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	firstVentasID := ids[0]

	// Re-running against an already-seeded store must be a no-op: no
	// duplicate configs, associations still pointing at the original rows.
	require.NoError(t, SeedFromFile(ctx, s, writeSeed(t, seedYAML), log))

	configs, err = s.ListReportConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	ids, err = s.ListAssociations(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{firstVentasID}, ids)

	empresas, err := s.ListEmpresas(ctx)
	require.NoError(t, err)
	assert.Len(t, empresas, 1)
}

func TestSeedFromFileUnknownConfigName(t *testing.T) {
	s := NewMemoryStore()
	body := `
empresas:
  - nombre: Acme
    client_id: acme-client
    client_secret: acme-secret
    reports: [Missing]
`
	err := SeedFromFile(context.Background(), s, writeSeed(t, body), zap.NewNop().Sugar())
	assert.ErrorContains(t, err, "unknown report config")
}
