// @title         Tax Intake API
// @version       0.1.0
// @description   Reasonable salary estimates and the multi step tax intake wizard

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"taxintake/internal/platform/config"
	"taxintake/internal/platform/logger"
	phttp "taxintake/internal/platform/net/http"
	"taxintake/internal/platform/store"

	"taxintake/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdCfg := root.Prefix("SERVICE_REDIS_")

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := store.Config{
		PG: store.PGConfig{Enabled: pgCfg.MayBool("ENABLED", true)},
		CH: store.CHConfig{Enabled: chCfg.MayBool("ENABLED", false)},
		Redis: store.RedisConfig{
			Enabled: rdCfg.MayBool("ENABLED", false),
		},
	}
	if cfg.PG.Enabled {
		cfg.PG.URL = pgCfg.MustString("DBURL")
		cfg.PG.MaxConns = int32(pgCfg.MayInt("MAX_CONNS", 4))
		cfg.PG.SlowQueryMs = pgCfg.MayInt("SLOW_MS", 500)
		cfg.PG.LogSQL = pgCfg.MayBool("LOG_SQL", false)
	}
	if cfg.CH.Enabled {
		cfg.CH.URL = chCfg.MustString("DBURL")
		cfg.CH.Role = chCfg.MayString("ROLE", "api")
	}
	if cfg.Redis.Enabled {
		cfg.Redis.Addr = rdCfg.MayString("ADDR", "localhost:6379")
		cfg.Redis.Password = rdCfg.MayString("PASSWORD", "")
		cfg.Redis.DB = rdCfg.MayInt("DB", 0)
	}

	// open the platform store (postgres, clickhouse, redis as enabled)
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// every enabled backend must answer before we take traffic
	gctx, gcancel := context.WithTimeout(ctx, apiCfg.MayDuration("STARTUP_GUARD", 10*time.Second))
	err = st.Guard(gctx)
	gcancel()
	if err != nil {
		l.Panic().Err(err).Msg("store guard failed")
	}

	// http server (reads CORE_API_API_PORT / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	closeAPI := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			CORSOrigins:    apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		},
	)
	defer closeAPI()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
