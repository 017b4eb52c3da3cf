package powerbi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"embedhub/pkg/empresas"
)

func testConfig() empresas.ReportConfig {
	return empresas.ReportConfig{
		ID: 1, Name: "Ventas",
		TenantID: "tenant-guid", AppClientID: "app-id", AppClientSecret: "app-secret",
		WorkspaceID: "ws-guid", ReportID: "rep-guid",
		PBIUsername: "svc@example.com", PBIPassword: "pw",
		Privado: true,
	}
}

func TestResolveEmbed(t *testing.T) {
	login := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tenant-guid/oauth2/v2.0/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.Form.Get("grant_type"))
		assert.Equal(t, "app-id", r.Form.Get("client_id"))
		assert.Equal(t, "svc@example.com", r.Form.Get("username"))
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "aad-token"})
	}))
	defer login.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1.0/myorg/groups/ws-guid/reports/rep-guid", r.URL.Path)
		assert.Equal(t, "Bearer aad-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"embedUrl": "https://app.powerbi.example/embed"})
	}))
	defer api.Close()

	c := NewClient(5*time.Second, zap.NewNop().Sugar())
	c.LoginBaseURL = login.URL
	c.APIBaseURL = api.URL

	embed, err := c.ResolveEmbed(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Equal(t, "aad-token", embed.Token)
	assert.Equal(t, "https://app.powerbi.example/embed", embed.URL)
	assert.Equal(t, "rep-guid", embed.ReportID)
}

func TestResolveEmbedAuthFailure(t *testing.T) {
	login := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer login.Close()

	c := NewClient(5*time.Second, zap.NewNop().Sugar())
	c.LoginBaseURL = login.URL

	_, err := c.ResolveEmbed(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aad token grant")
}

func TestResolveEmbedMissingCredentials(t *testing.T) {
	c := NewClient(5*time.Second, zap.NewNop().Sugar())

	cfg := testConfig()
	cfg.AppClientSecret = ""
	_, err := c.ResolveEmbed(context.Background(), cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.PBIPassword = ""
	_, err = c.ResolveEmbed(context.Background(), cfg)
	assert.Error(t, err)
}

func TestResolveEmbedTimeout(t *testing.T) {
	login := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "late"})
	}))
	defer login.Close()

	c := NewClient(20*time.Millisecond, zap.NewNop().Sugar())
	c.LoginBaseURL = login.URL

	_, err := c.ResolveEmbed(context.Background(), testConfig())
	assert.Error(t, err, "a slow upstream must fail via the client timeout, not hang")
}
