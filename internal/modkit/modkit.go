// Package modkit wires service modules onto the API router
package modkit

import "bugsift/internal/modkit/httpkit"

// Module is what the API composes: routes, ports and a name
type Module interface {
	MountRoutes(r httpkit.Router)
	Ports() any
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
