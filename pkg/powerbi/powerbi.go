// pkg/powerbi/powerbi.go

// Package powerbi resolves a report configuration into embed coordinates by
// talking to Azure AD (ROPC grant) and the Power BI REST API.
package powerbi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"embedhub/pkg/empresas"
)

// Embed is the coordinate tuple a client needs to render a report.
type Embed struct {
	Token    string
	URL      string
	ReportID string
}

// Resolver turns a report configuration into embed coordinates. The HTTP
// implementation is the production one; tests stub this.
type Resolver interface {
	ResolveEmbed(ctx context.Context, cfg empresas.ReportConfig) (Embed, error)
}

// Client calls Azure AD and the Power BI API. The underlying http.Client
// carries a hard timeout so an unresponsive upstream cannot hang a request.
type Client struct {
	http *http.Client
	log  *zap.SugaredLogger

	// Overridable for tests.
	LoginBaseURL string
	APIBaseURL   string
}

func NewClient(timeout time.Duration, log *zap.SugaredLogger) *Client {
	return &Client{
		http:         &http.Client{Timeout: timeout},
		log:          log,
		LoginBaseURL: "https://login.microsoftonline.com",
		APIBaseURL:   "https://api.powerbi.com",
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type reportResponse struct {
	EmbedURL string `json:"embedUrl"`
}

// ResolveEmbed authenticates with the ROPC flow using the config's app
// registration and BI service user, then fetches the report's embed URL.
// The AAD access token doubles as the embed token.
func (c *Client) ResolveEmbed(ctx context.Context, cfg empresas.ReportConfig) (Embed, error) {
	if cfg.AppClientSecret == "" {
		return Embed{}, fmt.Errorf("config %d: app client secret not set", cfg.ID)
	}
	if cfg.PBIUsername == "" || cfg.PBIPassword == "" {
		return Embed{}, fmt.Errorf("config %d: Power BI user credentials not set", cfg.ID)
	}

	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {cfg.AppClientID},
		"client_secret": {cfg.AppClientSecret},
		"scope":         {"https://analysis.windows.net/powerbi/api/.default"},
		"username":      {cfg.PBIUsername},
		"password":      {cfg.PBIPassword},
	}
	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.LoginBaseURL, cfg.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Embed{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return Embed{}, fmt.Errorf("aad token grant: %w", err)
	}
	if tok.AccessToken == "" {
		return Embed{}, fmt.Errorf("aad token grant: empty access_token")
	}

	reportURL := fmt.Sprintf("%s/v1.0/myorg/groups/%s/reports/%s", c.APIBaseURL, cfg.WorkspaceID, cfg.ReportID)
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return Embed{}, fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	var rep reportResponse
	if err := c.do(req, &rep); err != nil {
		return Embed{}, fmt.Errorf("report lookup: %w", err)
	}
	if rep.EmbedURL == "" {
		return Embed{}, fmt.Errorf("report lookup: empty embedUrl")
	}

	c.log.Debugw("embed resolved", "config", cfg.ID, "report", cfg.ReportID)
	return Embed{Token: tok.AccessToken, URL: rep.EmbedURL, ReportID: cfg.ReportID}, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
