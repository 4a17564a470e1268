package auth

import "strings"

// PublicRoutes is the route visibility marker: a static set of
// method-and-path pairs that skip authorization. It is populated while
// routes are registered and never mutated afterwards, so concurrent reads
// at request time need no locking.
type PublicRoutes struct {
	routes map[string]struct{}
}

// NewPublicRoutes returns an empty marker.
func NewPublicRoutes() *PublicRoutes {
	return &PublicRoutes{routes: make(map[string]struct{})}
}

// Mark flags a route as public. Call only during route registration.
func (p *PublicRoutes) Mark(method, path string) {
	p.routes[routeKey(method, path)] = struct{}{}
}

// IsPublic reports whether the request route skips the guard.
func (p *PublicRoutes) IsPublic(method, path string) bool {
	if p == nil {
		return false
	}
	_, ok := p.routes[routeKey(method, path)]
	return ok
}

func routeKey(method, path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}
	return method + " " + path
}
