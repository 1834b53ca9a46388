package http

import (
	"net/http"

	"bugsift/internal/platform/net/http/bind"
)

// GetJSON mounts a body-less GET handler
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, NoBodyHandler(h))
}

// PostJSON mounts a POST handler that binds T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Post(path, JSONHandler(h, opts...))
}
