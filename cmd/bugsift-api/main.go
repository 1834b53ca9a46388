// @title         bugsift API
// @version       1.0
// @description   Feature extraction over bug tracker records

package main

import (
	"context"
	"os/signal"
	"syscall"

	"bugsift/internal/core/version"
	"bugsift/internal/modkit"
	"bugsift/internal/modkit/repokit"
	"bugsift/internal/platform/config"
	"bugsift/internal/platform/logger"
	phttp "bugsift/internal/platform/net/http"
	"bugsift/internal/platform/store"

	"bugsift/internal/services/api"
	commitsmod "bugsift/internal/services/commits/module"
	featuresmod "bugsift/internal/services/features/module"
)

func main() {
	loaded, dotErr := config.LoadDotenv()

	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = api.ServiceName
	}
	logger.Init(lo)
	l := logger.Get()
	if dotErr != nil {
		l.Panic().Err(dotErr).Msg("load .env failed")
	}

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	if apiCfg.MayBool("MIGRATE", false) {
		deps := modkit.FromStore(root, st)
		if err := commitsmod.Migrate(ctx, deps); err != nil {
			l.Panic().Err(err).Msg("commits migration failed")
		}
		if err := featuresmod.Migrate(ctx, deps, featuresmod.FromConfig(root)); err != nil {
			l.Panic().Err(err).Msg("features migration failed")
		}
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		Timeout:        apiCfg.MayDuration("TIMEOUT", 0),
		SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", 0),
	})

	bi := version.Info(api.ServiceName)
	l.Info().
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Int("vocab", bi.Vocab).
		Strs("dotenv", loaded).
		Bool("pg", st.PG != nil).
		Bool("ch", st.CH != nil).
		Msg("bugsift-api starting")

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
