package adminapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"embedhub/internal/adminapi"
	"embedhub/pkg/credentials"
	"embedhub/pkg/empresas"
)

const adminToken = "unit-test-admin-token"

func newFixture(t *testing.T) (http.Handler, empresas.Store) {
	t.Helper()
	store := empresas.NewMemoryStore()
	app := adminapi.New(zap.NewNop().Sugar(), store, adminapi.Config{Env: "test", APIToken: adminToken})
	return app.Handler(), store
}

func do(t *testing.T, h http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createEmpresa(t *testing.T, h http.Handler, nombre string) (empresas.Empresa, string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/admin/empresas", adminToken, map[string]string{"nombre": nombre})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Empresa      empresas.Empresa `json:"empresa"`
		ClientID     string           `json:"client_id"`
		ClientSecret string           `json:"client_secret"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Empresa, out.ClientSecret
}

func TestAdminAuth(t *testing.T) {
	h, _ := newFixture(t)

	rec := do(t, h, http.MethodGet, "/admin/empresas", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/admin/empresas", "wrong-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/admin/empresas", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthUnconfigured(t *testing.T) {
	store := empresas.NewMemoryStore()

	// dev with no token: open for local bring-up
	dev := adminapi.New(zap.NewNop().Sugar(), store, adminapi.Config{Env: "dev"}).Handler()
	assert.Equal(t, http.StatusOK, do(t, dev, http.MethodGet, "/admin/empresas", "", nil).Code)

	// anywhere else: refused
	prod := adminapi.New(zap.NewNop().Sugar(), store, adminapi.Config{Env: "prod"}).Handler()
	assert.Equal(t, http.StatusInternalServerError, do(t, prod, http.MethodGet, "/admin/empresas", "", nil).Code)
}

func TestCreateEmpresa(t *testing.T) {
	h, store := newFixture(t)

	e, secret := createEmpresa(t, h, "Acme")
	assert.NotZero(t, e.ID)
	assert.True(t, e.Active)
	assert.NotEmpty(t, e.ClientID)
	assert.NotEmpty(t, secret)

	// The stored hash verifies against the secret returned once.
	stored, err := store.GetEmpresa(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, credentials.VerifySecret(secret, stored.SecretHash))

	rec := do(t, h, http.MethodPost, "/admin/empresas", adminToken, map[string]string{"nombre": "Acme"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/admin/empresas", adminToken, map[string]string{"cuit": "30-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmpresaResponseOmitsHash(t *testing.T) {
	h, _ := newFixture(t)
	rec := do(t, h, http.MethodPost, "/admin/empresas", adminToken, map[string]string{"nombre": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$", "bcrypt hash must never appear in responses")
	assert.NotContains(t, rec.Body.String(), "SecretHash")
}

func TestRegenerateCredentials(t *testing.T) {
	h, store := newFixture(t)
	e, oldSecret := createEmpresa(t, h, "Acme")

	rec := do(t, h, http.MethodPost, fmt.Sprintf("/admin/empresas/%d/regenerate-credentials", e.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEqual(t, e.ClientID, out["client_id"])
	assert.NotEqual(t, oldSecret, out["client_secret"])

	// Old hash discarded: only the new secret verifies.
	stored, err := store.GetEmpresa(context.Background(), e.ID)
	require.NoError(t, err)
	assert.False(t, credentials.VerifySecret(oldSecret, stored.SecretHash))
	assert.True(t, credentials.VerifySecret(out["client_secret"], stored.SecretHash))

	rec = do(t, h, http.MethodPost, "/admin/empresas/99999/regenerate-credentials", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleStatus(t *testing.T) {
	h, _ := newFixture(t)
	e, _ := createEmpresa(t, h, "Acme")

	rec := do(t, h, http.MethodPost, fmt.Sprintf("/admin/empresas/%d/toggle-status", e.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got empresas.Empresa
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Active)

	rec = do(t, h, http.MethodPost, fmt.Sprintf("/admin/empresas/%d/toggle-status", e.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Active)
}

func TestAssociationManagement(t *testing.T) {
	h, store := newFixture(t)
	ctx := context.Background()
	e, _ := createEmpresa(t, h, "Acme")

	priv := empresas.ReportConfig{Name: "Ventas", Privado: true}
	require.NoError(t, store.CreateReportConfig(ctx, &priv))
	pub := empresas.ReportConfig{Name: "Abierto", Publico: true}
	require.NoError(t, store.CreateReportConfig(ctx, &pub))

	rec := do(t, h, http.MethodPut, fmt.Sprintf("/admin/empresas/%d/reports", e.ID), adminToken,
		map[string][]int64{"report_config_ids": {pub.ID}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "public configs cannot be associated")

	rec = do(t, h, http.MethodPut, fmt.Sprintf("/admin/empresas/%d/reports", e.ID), adminToken,
		map[string][]int64{"report_config_ids": {priv.ID}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/admin/empresas/%d/reports", e.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"report_config_ids":[%d]}`, priv.ID), rec.Body.String())

	// Delete refused while associated, allowed after clearing.
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/admin/empresas/%d", e.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPut, fmt.Sprintf("/admin/empresas/%d/reports", e.ID), adminToken,
		map[string][]int64{"report_config_ids": {}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/admin/empresas/%d", e.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
