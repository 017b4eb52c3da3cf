package empresas

import "time"

// Empresa is an external organization granted API access to private reports.
// SecretHash is a bcrypt hash; the plaintext secret is never stored.
type Empresa struct {
	ID         int64     `json:"id"`
	Nombre     string    `json:"nombre"`
	CUIT       string    `json:"cuit,omitempty"`
	ClientID   string    `json:"client_id"`
	SecretHash string    `json:"-"`
	Active     bool      `json:"estado_activo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReportConfig holds everything needed to embed one Power BI report: the
// Azure AD tenant and app registration, the workspace/report pair, and the
// BI service user the embed token is minted for. The two privacy flags are
// independent; a config may be public, private, or both.
type ReportConfig struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	TenantID        string `json:"-"`
	AppClientID     string `json:"-"`
	AppClientSecret string `json:"-"`
	WorkspaceID     string `json:"-"`
	ReportID        string `json:"-"`
	PBIUsername     string `json:"-"`
	PBIPassword     string `json:"-"`

	Publico   bool      `json:"es_publico"`
	Privado   bool      `json:"es_privado"`
	CreatedAt time.Time `json:"created_at"`
}
