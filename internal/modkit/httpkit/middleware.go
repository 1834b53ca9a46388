package httpkit

import (
	"net/http"

	"bugsift/internal/platform/net/middleware"
)

// CommonStack is the per API middleware applied under /api/v1
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.CORS(middleware.CORSOptions{}),
	}
}
