// pkg/empresas/retry.go
package empresas

import (
	"context"
	"time"

	"go.uber.org/zap"

	"embedhub/pkg/db"
)

// retryingStore decorates a Store with transient-failure retries, applied
// uniformly at the storage boundary instead of being woven into handlers.
type retryingStore struct {
	inner    Store
	log      *zap.SugaredLogger
	attempts uint64
	delay    time.Duration
}

// WithRetry wraps store so every call retries transient database errors with
// linear backoff. Store sentinels (not found, duplicate, ...) pass through
// untouched.
func WithRetry(store Store, log *zap.SugaredLogger, attempts uint64, delay time.Duration) Store {
	return &retryingStore{inner: store, log: log, attempts: attempts, delay: delay}
}

func (r *retryingStore) retry(ctx context.Context, op func(ctx context.Context) error) error {
	return db.Retry(ctx, r.log, r.attempts, r.delay, op)
}

func (r *retryingStore) CreateEmpresa(ctx context.Context, e *Empresa) error {
	return r.retry(ctx, func(ctx context.Context) error { return r.inner.CreateEmpresa(ctx, e) })
}

func (r *retryingStore) GetEmpresa(ctx context.Context, id int64) (Empresa, error) {
	var e Empresa
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		e, err = r.inner.GetEmpresa(ctx, id)
		return err
	})
	return e, err
}

func (r *retryingStore) GetEmpresaByClientID(ctx context.Context, clientID string) (Empresa, error) {
	var e Empresa
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		e, err = r.inner.GetEmpresaByClientID(ctx, clientID)
		return err
	})
	return e, err
}

func (r *retryingStore) ListEmpresas(ctx context.Context) ([]Empresa, error) {
	var out []Empresa
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		out, err = r.inner.ListEmpresas(ctx)
		return err
	})
	return out, err
}

func (r *retryingStore) UpdateEmpresa(ctx context.Context, id int64, nombre, cuit string) (Empresa, error) {
	var e Empresa
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		e, err = r.inner.UpdateEmpresa(ctx, id, nombre, cuit)
		return err
	})
	return e, err
}

func (r *retryingStore) SetEmpresaCredentials(ctx context.Context, id int64, clientID, secretHash string) error {
	return r.retry(ctx, func(ctx context.Context) error {
		return r.inner.SetEmpresaCredentials(ctx, id, clientID, secretHash)
	})
}

func (r *retryingStore) SetEmpresaActive(ctx context.Context, id int64, active bool) (Empresa, error) {
	var e Empresa
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		e, err = r.inner.SetEmpresaActive(ctx, id, active)
		return err
	})
	return e, err
}

func (r *retryingStore) DeleteEmpresa(ctx context.Context, id int64) error {
	return r.retry(ctx, func(ctx context.Context) error { return r.inner.DeleteEmpresa(ctx, id) })
}

func (r *retryingStore) CreateReportConfig(ctx context.Context, rc *ReportConfig) error {
	return r.retry(ctx, func(ctx context.Context) error { return r.inner.CreateReportConfig(ctx, rc) })
}

func (r *retryingStore) GetReportConfig(ctx context.Context, id int64) (ReportConfig, error) {
	var rc ReportConfig
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		rc, err = r.inner.GetReportConfig(ctx, id)
		return err
	})
	return rc, err
}

func (r *retryingStore) ListReportConfigs(ctx context.Context) ([]ReportConfig, error) {
	var out []ReportConfig
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		out, err = r.inner.ListReportConfigs(ctx)
		return err
	})
	return out, err
}

func (r *retryingStore) ListPrivateConfigs(ctx context.Context, empresaID int64) ([]ReportConfig, error) {
	var out []ReportConfig
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		out, err = r.inner.ListPrivateConfigs(ctx, empresaID)
		return err
	})
	return out, err
}

func (r *retryingStore) IsAssociated(ctx context.Context, empresaID, configID int64) (bool, error) {
	var ok bool
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		ok, err = r.inner.IsAssociated(ctx, empresaID, configID)
		return err
	})
	return ok, err
}

func (r *retryingStore) ListAssociations(ctx context.Context, empresaID int64) ([]int64, error) {
	var out []int64
	err := r.retry(ctx, func(ctx context.Context) (err error) {
		out, err = r.inner.ListAssociations(ctx, empresaID)
		return err
	})
	return out, err
}

func (r *retryingStore) ReplaceAssociations(ctx context.Context, empresaID int64, configIDs []int64) error {
	return r.retry(ctx, func(ctx context.Context) error {
		return r.inner.ReplaceAssociations(ctx, empresaID, configIDs)
	})
}
