// Package module implements the commits service module
package module

import (
	"context"

	"bugsift/internal/modkit"
	"bugsift/internal/modkit/httpkit"
	"bugsift/internal/services/commits/domain"
	"bugsift/internal/services/commits/repo"
	"bugsift/internal/services/commits/service"
)

// Ports exposed by the commits module
type Ports struct {
	Lookup domain.LookupPort
	Writer domain.WriterPort
}

// Module implements the commits service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new commits module; without Postgres it exposes no ports
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps}
	if deps.PG == nil {
		return m
	}
	opts := FromConfig(deps.Cfg)
	svc := service.New(deps.PG, repo.NewPG(), service.Config{ChunkSize: opts.ChunkSize})
	m.ports = Ports{Lookup: svc, Writer: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "commits" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}

// Migrate creates the commit_messages table when Postgres is configured
func Migrate(ctx context.Context, deps modkit.Deps) error {
	if deps.PG == nil {
		return nil
	}
	return repo.EnsureSchema(ctx, deps.PG)
}
