package empresas

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrHasAssociations = errors.New("empresa has associated report configs")
	ErrNotPrivate      = errors.New("report config is not private")
)

// Store is the persistence boundary for empresas, report configs and the
// many-to-many association between them. The association table is the sole
// source of truth for private access; handlers never infer permission from
// anything else.
type Store interface {
	CreateEmpresa(ctx context.Context, e *Empresa) error
	GetEmpresa(ctx context.Context, id int64) (Empresa, error)
	GetEmpresaByClientID(ctx context.Context, clientID string) (Empresa, error)
	ListEmpresas(ctx context.Context) ([]Empresa, error)
	UpdateEmpresa(ctx context.Context, id int64, nombre, cuit string) (Empresa, error)
	// SetEmpresaCredentials replaces the public id and secret hash atomically;
	// the old hash is discarded.
	SetEmpresaCredentials(ctx context.Context, id int64, clientID, secretHash string) error
	SetEmpresaActive(ctx context.Context, id int64, active bool) (Empresa, error)
	// DeleteEmpresa fails with ErrHasAssociations while report configs are
	// still linked.
	DeleteEmpresa(ctx context.Context, id int64) error

	CreateReportConfig(ctx context.Context, rc *ReportConfig) error
	GetReportConfig(ctx context.Context, id int64) (ReportConfig, error)
	ListReportConfigs(ctx context.Context) ([]ReportConfig, error)

	// ListPrivateConfigs returns the private configs associated with the
	// empresa. Zero associations is a normal empty result.
	ListPrivateConfigs(ctx context.Context, empresaID int64) ([]ReportConfig, error)
	// IsAssociated is the authorization membership check.
	IsAssociated(ctx context.Context, empresaID, configID int64) (bool, error)
	ListAssociations(ctx context.Context, empresaID int64) ([]int64, error)
	// ReplaceAssociations swaps the empresa's association set. Linking a
	// config whose private flag is false fails with ErrNotPrivate.
	ReplaceAssociations(ctx context.Context, empresaID int64, configIDs []int64) error
}
