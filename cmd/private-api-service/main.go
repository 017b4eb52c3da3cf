// cmd/private-api-service/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"embedhub/internal/privateapi"
	"embedhub/pkg/config"
	"embedhub/pkg/db"
	"embedhub/pkg/empresas"
	"embedhub/pkg/logger"
	"embedhub/pkg/powerbi"
	"embedhub/pkg/tokens"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, "private-api")
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
	if cfg.SeedFile != "" {
		if err := empresas.SeedFromFile(context.Background(), store, cfg.SeedFile, log); err != nil {
			log.Warnw("seed", "file", cfg.SeedFile, "err", err)
		}
	}

	var limiter *privateapi.LoginLimiter
	if rdb := db.MustRedis(cfg, log); rdb != nil {
		limiter = privateapi.NewLoginLimiter(rdb, log, 10, time.Minute)
	}

	app := privateapi.New(
		log,
		store,
		tokens.New(cfg.JWTSecret, cfg.TokenLifetime),
		powerbi.NewClient(cfg.PowerBITimeout, log),
		limiter,
	)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: app.Handler()}
	go func() {
		log.Infow("private-api listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Infow("private-api stopped")
}
