package privateapi

import (
	"go.uber.org/zap"

	"embedhub/pkg/empresas"
	"embedhub/pkg/powerbi"
	"embedhub/pkg/tokens"
)

// App is the private-api application container: shared deps only,
// request-scoped work goes through context.
type App struct {
	log      *zap.SugaredLogger
	store    empresas.Store
	tokens   *tokens.Service
	resolver powerbi.Resolver
	limiter  *LoginLimiter // nil disables login rate limiting
}

func New(log *zap.SugaredLogger, store empresas.Store, ts *tokens.Service, resolver powerbi.Resolver, limiter *LoginLimiter) *App {
	return &App{log: log, store: store, tokens: ts, resolver: resolver, limiter: limiter}
}
