// Package module wires feature extraction into the API using modkit
package module

import (
	"context"
	"fmt"

	"bugsift/internal/modkit"
	"bugsift/internal/modkit/httpkit"
	"bugsift/internal/platform/logger"
	"bugsift/internal/services/features/domain"
	fhttp "bugsift/internal/services/features/http"
	"bugsift/internal/services/features/repo"
	"bugsift/internal/services/features/service"
)

// Ports carries the injected commit lookup and the exposed extractor
type Ports struct {
	Commits   domain.CommitsPort
	Extractor domain.ExtractorPort
}

// Module implements the features API module
type Module struct {
	b     modkit.Built
	opts  Options
	svc   *service.Service
	ports Ports
}

// New constructs the features module; inject the commit lookup with modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("features"),
		modkit.WithPrefix("/features"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	o := FromConfig(deps.Cfg)
	svc, err := service.New(injected.Commits, Writer(deps, o), o.ServiceConfig("api"))
	if err != nil {
		panic(fmt.Sprintf("features module: %v", err))
	}

	log := logger.Named("features")
	log.Info().
		Strs("extractors", o.Extractors).
		Strs("cleanup", o.Cleanup).
		Bool("commits", injected.Commits != nil).
		Bool("persist", svc.Writer != nil).
		Msg("features: module ready")

	return &Module{
		b:     b,
		opts:  o,
		svc:   svc,
		ports: Ports{Commits: injected.Commits, Extractor: svc},
	}
}

// Writer builds the writer enabled by o; nil when nothing is enabled or the backend is missing
func Writer(deps modkit.Deps, o Options) domain.WriterPort {
	log := logger.Named("features")
	var pg, ch domain.WriterPort
	if o.Persist {
		if deps.PG != nil {
			pg = repo.NewPGWriter(deps.PG, repo.NewPG(), 0)
		} else {
			log.Warn().Msg("features: persistence requested without postgres; disabled")
		}
	}
	if o.ExportCH {
		if deps.CH != nil {
			ch = repo.NewCHExporter(deps.CH)
		} else {
			log.Warn().Msg("features: clickhouse export requested without clickhouse; disabled")
		}
	}
	return repo.Fanout(pg, ch)
}

// Migrate creates the tables the enabled writers need
func Migrate(ctx context.Context, deps modkit.Deps, o Options) error {
	if o.Persist && deps.PG != nil {
		if err := repo.EnsureSchema(ctx, deps.PG); err != nil {
			return err
		}
	}
	if o.ExportCH && deps.CH != nil {
		if err := repo.EnsureCHSchema(ctx, deps.CH); err != nil {
			return err
		}
	}
	return nil
}

// Service returns the underlying service for batch runs
func (m *Module) Service() *service.Service { return m.svc }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		fhttp.Register(rr, m.svc, int64(m.opts.MaxBodyBytes))
	})
}
