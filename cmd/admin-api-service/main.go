// cmd/admin-api-service/main.go
package main

import (
	"context"
	"net/http"
	"time"

	"embedhub/internal/adminapi"
	"embedhub/pkg/config"
	"embedhub/pkg/db"
	"embedhub/pkg/empresas"
	"embedhub/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, "admin-api")
	defer log.Sync()

	pool := db.MustConnect(cfg, log)

	var store empresas.Store
	if pool != nil {
		if err := empresas.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		store = empresas.WithRetry(empresas.NewPostgresStore(pool, log), log, 3, time.Second)
	} else {
		store = empresas.NewMemoryStore()
	}

	app := adminapi.New(log, store, adminapi.Config{
		HTTPAddr: cfg.AdminAddr,
		Env:      cfg.Env,
		APIToken: cfg.AdminAPIToken,
	})

	log.Infof("admin-api listening at %s", cfg.AdminAddr)
	if err := http.ListenAndServe(cfg.AdminAddr, app.Handler()); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
