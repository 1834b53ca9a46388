// Package api composes the bugsift HTTP API from service modules
package api

//go:generate swag init --v3.1 -g api.go -d .,../features,../../core -o docs --instanceName api

import (
	"time"

	"bugsift/internal/modkit"
	"bugsift/internal/modkit/httpkit"
	"bugsift/internal/modkit/module"
	"bugsift/internal/modkit/swaggerkit"
	"bugsift/internal/platform/config"
	"bugsift/internal/platform/logger"
	phttp "bugsift/internal/platform/net/http"
	"bugsift/internal/platform/net/middleware"
	"bugsift/internal/platform/store"

	metamod "bugsift/internal/services/api/meta/module"
	commitsmod "bugsift/internal/services/commits/module"
	featuresmod "bugsift/internal/services/features/module"
)

// ServiceName identifies the API in logs and meta responses
const ServiceName = "bugsift-api"

// Options are the API options
type Options struct {
	// Config is the root view; modules apply their own prefixes
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
	Timeout        time.Duration
	SlowRequest    time.Duration
}

// Mount mounts the API onto r and returns the composed modules
func Mount(r phttp.Router, opt Options) []modkit.Module {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	if opt.SlowRequest <= 0 {
		opt.SlowRequest = 2 * time.Second
	}
	deps := modkit.FromStore(opt.Config, opt.Store)

	r.Use(middleware.Heartbeat("/health"))
	r.Use(middleware.Defaults(opt.Timeout, opt.SlowRequest)...)

	// commits owns the lookup port the features module consumes
	commits := commitsmod.New(deps)
	features := featuresmod.New(deps, modkit.WithPorts(featuresmod.Ports{
		Commits: commits.Ports().(commitsmod.Ports).Lookup,
	}))

	mods := []modkit.Module{
		metamod.New(deps, ServiceName),
		commits,
		features,
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	logger.Named("api").Info().
		Int("modules", len(mods)).
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Msg("api: mounted")
	return mods
}
