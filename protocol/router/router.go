// Package router maps request paths to the handlers that answer them.
package router

import (
	"strings"

	"github.com/gptankit/minihttpd/model"
)

const (
	ROUTE_ROOT       = "/"
	ROUTE_ECHO       = "/echo/"
	ROUTE_FILES      = "/files/"
	ROUTE_USER_AGENT = "/user-agent"
)

// Router dispatches on the raw request path. Its only state is the static
// file directory, so one Router is shared by every worker.
type Router struct {
	filesDir string
}

// New returns a Router serving /files/ from filesDir. An empty filesDir
// answers every /files/ request with 404.
func New(filesDir string) *Router {

	return &Router{filesDir: filesDir}
}

// Route picks the handler for req. Matching is on the raw path text; the
// part after a matched prefix is passed on verbatim.
func (rt *Router) Route(req model.Request) model.Response {

	path := req.Path

	switch {
	case path == ROUTE_ROOT:
		return root()
	case strings.HasPrefix(path, ROUTE_ECHO):
		return echo(strings.TrimPrefix(path, ROUTE_ECHO))
	case strings.HasPrefix(path, ROUTE_FILES):
		return staticFile(rt.filesDir, strings.TrimPrefix(path, ROUTE_FILES))
	case path == ROUTE_USER_AGENT:
		return userAgent(req.Headers)
	default:
		return notFound()
	}
}
