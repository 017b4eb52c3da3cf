// pkg/empresas/postgres.go
package empresas

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS empresas (
  id bigserial PRIMARY KEY,
  nombre text NOT NULL UNIQUE,
  cuit text,
  client_id text NOT NULL UNIQUE,
  client_secret_hash text NOT NULL,
  estado_activo boolean NOT NULL DEFAULT true,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS report_configs (
  id bigserial PRIMARY KEY,
  name text NOT NULL,
  tenant_id text NOT NULL,
  app_client_id text NOT NULL,
  app_client_secret text NOT NULL,
  workspace_id text NOT NULL,
  report_id text NOT NULL,
  pbi_username text NOT NULL,
  pbi_password text NOT NULL,
  es_publico boolean NOT NULL DEFAULT true,
  es_privado boolean NOT NULL DEFAULT false,
  created_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS empresa_report_config (
  empresa_id bigint NOT NULL REFERENCES empresas(id),
  report_config_id bigint NOT NULL REFERENCES report_configs(id) ON DELETE CASCADE,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  PRIMARY KEY (empresa_id, report_config_id)
);
CREATE INDEX IF NOT EXISTS empresa_report_config_config_idx ON empresa_report_config(report_config_id);
`)
	return err
}

const empresaCols = `id,nombre,COALESCE(cuit,''),client_id,client_secret_hash,estado_activo,created_at,updated_at`

func scanEmpresa(row pgx.Row) (Empresa, error) {
	var e Empresa
	err := row.Scan(&e.ID, &e.Nombre, &e.CUIT, &e.ClientID, &e.SecretHash, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Empresa{}, ErrNotFound
	}
	if err != nil {
		return Empresa{}, fmt.Errorf("scan empresa: %w", err)
	}
	return e, nil
}

func (s *pgStore) CreateEmpresa(ctx context.Context, e *Empresa) error {
	row := s.dbPool.QueryRow(ctx, `INSERT INTO empresas(nombre,cuit,client_id,client_secret_hash,estado_activo)
	  VALUES ($1,NULLIF($2,''),$3,$4,$5) RETURNING `+empresaCols,
		e.Nombre, e.CUIT, e.ClientID, e.SecretHash, e.Active)
	created, err := scanEmpresa(row)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	*e = created
	return nil
}

func (s *pgStore) GetEmpresa(ctx context.Context, id int64) (Empresa, error) {
	return scanEmpresa(s.dbPool.QueryRow(ctx, `SELECT `+empresaCols+` FROM empresas WHERE id=$1`, id))
}

func (s *pgStore) GetEmpresaByClientID(ctx context.Context, clientID string) (Empresa, error) {
	return scanEmpresa(s.dbPool.QueryRow(ctx, `SELECT `+empresaCols+` FROM empresas WHERE client_id=$1`, clientID))
}

func (s *pgStore) ListEmpresas(ctx context.Context) ([]Empresa, error) {
	rows, err := s.dbPool.Query(ctx, `SELECT `+empresaCols+` FROM empresas ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list empresas: %w", err)
	}
	defer rows.Close()
	out := []Empresa{}
	for rows.Next() {
		var e Empresa
		if err := rows.Scan(&e.ID, &e.Nombre, &e.CUIT, &e.ClientID, &e.SecretHash, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan empresa: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *pgStore) UpdateEmpresa(ctx context.Context, id int64, nombre, cuit string) (Empresa, error) {
	row := s.dbPool.QueryRow(ctx, `UPDATE empresas SET nombre=$2, cuit=NULLIF($3,''), updated_at=NOW()
	  WHERE id=$1 RETURNING `+empresaCols, id, nombre, cuit)
	e, err := scanEmpresa(row)
	if err != nil && isUniqueViolation(err) {
		return Empresa{}, ErrDuplicate
	}
	return e, err
}

func (s *pgStore) SetEmpresaCredentials(ctx context.Context, id int64, clientID, secretHash string) error {
	tag, err := s.dbPool.Exec(ctx, `UPDATE empresas SET client_id=$2, client_secret_hash=$3, updated_at=NOW() WHERE id=$1`,
		id, clientID, secretHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("set credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) SetEmpresaActive(ctx context.Context, id int64, active bool) (Empresa, error) {
	row := s.dbPool.QueryRow(ctx, `UPDATE empresas SET estado_activo=$2, updated_at=NOW() WHERE id=$1 RETURNING `+empresaCols,
		id, active)
	return scanEmpresa(row)
}

func (s *pgStore) DeleteEmpresa(ctx context.Context, id int64) error {
	var n int
	if err := s.dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM empresa_report_config WHERE empresa_id=$1`, id).Scan(&n); err != nil {
		return fmt.Errorf("count associations: %w", err)
	}
	if n > 0 {
		return ErrHasAssociations
	}
	tag, err := s.dbPool.Exec(ctx, `DELETE FROM empresas WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete empresa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const configCols = `id,name,tenant_id,app_client_id,app_client_secret,workspace_id,report_id,pbi_username,pbi_password,es_publico,es_privado,created_at`

func scanConfig(row pgx.Row) (ReportConfig, error) {
	var rc ReportConfig
	err := row.Scan(&rc.ID, &rc.Name, &rc.TenantID, &rc.AppClientID, &rc.AppClientSecret,
		&rc.WorkspaceID, &rc.ReportID, &rc.PBIUsername, &rc.PBIPassword, &rc.Publico, &rc.Privado, &rc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReportConfig{}, ErrNotFound
	}
	if err != nil {
		return ReportConfig{}, fmt.Errorf("scan report config: %w", err)
	}
	return rc, nil
}

func (s *pgStore) CreateReportConfig(ctx context.Context, rc *ReportConfig) error {
	row := s.dbPool.QueryRow(ctx, `INSERT INTO report_configs
	  (name,tenant_id,app_client_id,app_client_secret,workspace_id,report_id,pbi_username,pbi_password,es_publico,es_privado)
	  VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING `+configCols,
		rc.Name, rc.TenantID, rc.AppClientID, rc.AppClientSecret, rc.WorkspaceID, rc.ReportID,
		rc.PBIUsername, rc.PBIPassword, rc.Publico, rc.Privado)
	created, err := scanConfig(row)
	if err != nil {
		return err
	}
	*rc = created
	return nil
}

func (s *pgStore) GetReportConfig(ctx context.Context, id int64) (ReportConfig, error) {
	return scanConfig(s.dbPool.QueryRow(ctx, `SELECT `+configCols+` FROM report_configs WHERE id=$1`, id))
}

func (s *pgStore) ListReportConfigs(ctx context.Context) ([]ReportConfig, error) {
	rows, err := s.dbPool.Query(ctx, `SELECT `+configCols+` FROM report_configs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list report configs: %w", err)
	}
	defer rows.Close()
	out := []ReportConfig{}
	for rows.Next() {
		var rc ReportConfig
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.TenantID, &rc.AppClientID, &rc.AppClientSecret,
			&rc.WorkspaceID, &rc.ReportID, &rc.PBIUsername, &rc.PBIPassword, &rc.Publico, &rc.Privado, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report config: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (s *pgStore) ListPrivateConfigs(ctx context.Context, empresaID int64) ([]ReportConfig, error) {
	rows, err := s.dbPool.Query(ctx, `SELECT rc.id,rc.name,rc.tenant_id,rc.app_client_id,rc.app_client_secret,
	  rc.workspace_id,rc.report_id,rc.pbi_username,rc.pbi_password,rc.es_publico,rc.es_privado,rc.created_at
	  FROM report_configs rc
	  JOIN empresa_report_config erc ON erc.report_config_id = rc.id
	  WHERE erc.empresa_id=$1 AND rc.es_privado
	  ORDER BY rc.name`, empresaID)
	if err != nil {
		return nil, fmt.Errorf("list private configs: %w", err)
	}
	defer rows.Close()
	out := []ReportConfig{}
	for rows.Next() {
		var rc ReportConfig
		if err := rows.Scan(&rc.ID, &rc.Name, &rc.TenantID, &rc.AppClientID, &rc.AppClientSecret,
			&rc.WorkspaceID, &rc.ReportID, &rc.PBIUsername, &rc.PBIPassword, &rc.Publico, &rc.Privado, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report config: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (s *pgStore) IsAssociated(ctx context.Context, empresaID, configID int64) (bool, error) {
	var ok bool
	err := s.dbPool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM empresa_report_config WHERE empresa_id=$1 AND report_config_id=$2)`,
		empresaID, configID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("association check: %w", err)
	}
	return ok, nil
}

func (s *pgStore) ListAssociations(ctx context.Context, empresaID int64) ([]int64, error) {
	rows, err := s.dbPool.Query(ctx,
		`SELECT report_config_id FROM empresa_report_config WHERE empresa_id=$1 ORDER BY report_config_id`, empresaID)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	defer rows.Close()
	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *pgStore) ReplaceAssociations(ctx context.Context, empresaID int64, configIDs []int64) error {
	tx, err := s.dbPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.GetEmpresa(ctx, empresaID); err != nil {
		return err
	}
	for _, id := range configIDs {
		var privado bool
		if err := tx.QueryRow(ctx, `SELECT es_privado FROM report_configs WHERE id=$1`, id).Scan(&privado); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("check config %d: %w", id, err)
		}
		if !privado {
			return ErrNotPrivate
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM empresa_report_config WHERE empresa_id=$1`, empresaID); err != nil {
		return fmt.Errorf("clear associations: %w", err)
	}
	for _, id := range configIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO empresa_report_config(empresa_id,report_config_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			empresaID, id); err != nil {
			return fmt.Errorf("insert association: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
