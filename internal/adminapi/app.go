package adminapi

import (
	"go.uber.org/zap"

	"embedhub/pkg/empresas"
)

// Config holds admin-api specific configuration.
type Config struct {
	HTTPAddr string
	Env      string
	APIToken string // static bearer token; empty means dev-only open access
}

// App is the admin-api application container. Handlers and middleware have
// methods on this type. Shared deps and config only; request-scoped work
// uses context.
type App struct {
	log   *zap.SugaredLogger
	store empresas.Store
	cfg   Config
}

func New(log *zap.SugaredLogger, store empresas.Store, cfg Config) *App {
	return &App{log: log, store: store, cfg: cfg}
}
