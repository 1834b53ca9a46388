// Package httpkit is the handler and routing surface modules use instead of the platform http package
package httpkit

import (
	"net/http"

	phttp "bugsift/internal/platform/net/http"
	"bugsift/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope
	Envelope = phttp.Envelope

	// Response is a return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router

	// JSONOptions controls body decoding
	JSONOptions = bind.JSONOptions
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Error maps err to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Call adapts a handler that takes no body
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.NoBodyHandler(fn) }

// JSON adapts a handler that binds T from the body
func JSON[T any](fn func(*http.Request, T) (any, error), opts ...JSONOptions) Handler {
	return phttp.JSONHandler(fn, opts...)
}
