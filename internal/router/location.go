package router

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Location is a path plus query parameters, the TUI's equivalent of a URL.
type Location struct {
	Path  string
	Query url.Values
}

// Parse reads a location such as "/contacts/1" or "/?q=ada".
func Parse(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}
	if u.IsAbs() || u.Host != "" {
		return Location{}, fmt.Errorf("parse location %q: must be a path", raw)
	}
	return Location{Path: cleanPath(u.Path), Query: u.Query()}, nil
}

// MustParse is Parse for locations known at compile time.
func MustParse(raw string) Location {
	l, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return l
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func (l Location) String() string {
	p := (&url.URL{Path: cleanPath(l.Path)}).EscapedPath()
	if len(l.Query) == 0 {
		return p
	}
	return p + "?" + l.Query.Encode()
}

// Param returns the first value of name and whether the parameter is present at all.
// "/?q=" has q present and empty; "/" has it absent.
func (l Location) Param(name string) (string, bool) {
	vals, ok := l.Query[name]
	if !ok {
		return "", false
	}
	if len(vals) == 0 {
		return "", true
	}
	return vals[0], true
}

// WithQuery returns a copy of l whose query is replaced by q.
func (l Location) WithQuery(q url.Values) Location {
	out := Location{Path: cleanPath(l.Path)}
	if len(q) > 0 {
		out.Query = make(url.Values, len(q))
		for k, v := range q {
			out.Query[k] = append([]string(nil), v...)
		}
	}
	return out
}

func (l Location) Equal(o Location) bool { return l.String() == o.String() }
