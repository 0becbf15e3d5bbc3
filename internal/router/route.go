package router

import (
	"context"
	"net/url"
	"strings"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Params holds the values of dynamic ":name" path segments.
type Params map[string]string

// Request is what loaders and actions receive.
type Request struct {
	Location Location
	Params   Params
	Method   string
	Form     url.Values
}

// LoaderFunc reads the data a route renders.
type LoaderFunc func(ctx context.Context, req Request) (any, error)

// ActionFunc handles a POST submission. Returning a Redirect navigates to its
// target; any other value is kept as the action result and the current location
// is revalidated.
type ActionFunc func(ctx context.Context, req Request) (any, error)

// Route is one node of the route tree. Path is relative to the parent and may
// contain ":name" segments. An Index route matches when nothing is left of the path.
type Route struct {
	ID       string
	Path     string
	Index    bool
	Loader   LoaderFunc
	Action   ActionFunc
	Children []Route
}

// Match is a route on the matched chain, outermost first.
type Match struct {
	Route  *Route
	Params Params
}

// MatchRoutes resolves path against the tree and returns the matched chain.
func MatchRoutes(routes []Route, path string) ([]Match, bool) {
	chain, ok := matchChildren(routes, splitPath(path), Params{})
	return chain, ok
}

func matchChildren(routes []Route, segs []string, params Params) ([]Match, bool) {
	for i := range routes {
		if chain, ok := matchRoute(&routes[i], segs, params); ok {
			return chain, true
		}
	}
	return nil, false
}

func matchRoute(r *Route, segs []string, inherited Params) ([]Match, bool) {
	if r.Index {
		if len(segs) != 0 {
			return nil, false
		}
		return []Match{{Route: r, Params: inherited}}, true
	}
	pattern := splitPath(r.Path)
	if len(pattern) > len(segs) {
		return nil, false
	}
	params := make(Params, len(inherited)+1)
	for k, v := range inherited {
		params[k] = v
	}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			// Location.Path is already decoded.
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	rest := segs[len(pattern):]
	self := Match{Route: r, Params: params}
	if len(r.Children) > 0 {
		if chain, ok := matchChildren(r.Children, rest, params); ok {
			return append([]Match{self}, chain...), true
		}
	}
	if len(rest) != 0 {
		return nil, false
	}
	return []Match{self}, true
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
