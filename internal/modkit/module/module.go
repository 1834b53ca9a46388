// Package module holds the cross module port registry and lookups
package module

import "bugsift/internal/modkit/httpkit"

// Module mirrors modkit.Module so this package stays import-cycle free
type Module interface {
	MountRoutes(r httpkit.Router)
	Ports() any
	Name() string
}
