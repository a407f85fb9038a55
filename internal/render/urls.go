package render

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/portfoliobuilder/internal/logfields"
)

// StaticEndpoint is the endpoint that maps a filename into the static tree.
const StaticEndpoint = "static"

// URLResolver maps logical endpoint names to output-relative paths.
type URLResolver struct {
	routes map[string]string
}

// NewURLResolver returns a resolver for the given endpoint to path routes.
func NewURLResolver(routes map[string]string) *URLResolver {
	r := &URLResolver{routes: make(map[string]string, len(routes))}
	for k, v := range routes {
		r.routes[k] = v
	}
	return r
}

// URLFor resolves endpoint. For "static" the first arg is the filename and
// the result is "static/<filename>"; a leading slash on the filename is
// dropped so "/css/a.css" and "css/a.css" give the same URL. Unknown
// endpoints, and "static" without a filename, resolve to the empty string.
func (r *URLResolver) URLFor(endpoint string, args ...string) string {
	if endpoint == StaticEndpoint {
		if len(args) == 0 || args[0] == "" {
			slog.Debug("url_for static without filename")
			return ""
		}
		return StaticEndpoint + "/" + strings.TrimPrefix(args[0], "/")
	}
	if p, ok := r.routes[endpoint]; ok {
		return p
	}
	slog.Debug("url_for unknown endpoint", logfields.URL(endpoint))
	return ""
}

// Static is shorthand for URLFor("static", filename).
func (r *URLResolver) Static(filename string) string {
	return r.URLFor(StaticEndpoint, filename)
}
