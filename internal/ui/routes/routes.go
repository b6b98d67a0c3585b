package routes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoRoute is returned for paths outside the table
var ErrNoRoute = errors.New("no route matches path")

// maxRedirects bounds redirect chains in the table
const maxRedirects = 4

// Kind identifies which view a route activates
type Kind int

const (
	KindRedirect Kind = iota
	KindDashboard
	KindCourses
	KindDetail
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindDashboard:
		return "dashboard"
	case KindCourses:
		return "courses"
	case KindDetail:
		return "detail"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Route maps a path pattern to a view. Segments starting with ':' are
// numeric parameters.
type Route struct {
	Path       string
	RedirectTo string
	Kind       Kind
}

// Match is a resolved navigation target
type Match struct {
	Route  Route
	Path   string // canonical path after redirects, with a leading slash
	Params map[string]int64
}

// ID returns the :id parameter
func (m Match) ID() int64 {
	return m.Params["id"]
}

// Table is an ordered route list; the first match wins.
type Table []Route

// Default is the application's route table
var Default = Table{
	{Path: "", RedirectTo: "/dashboard", Kind: KindRedirect},
	{Path: "dashboard", Kind: KindDashboard},
	{Path: "detail/:id", Kind: KindDetail},
	{Path: "courses", Kind: KindCourses},
}

// Resolve finds the route for path, following redirects
func (t Table) Resolve(path string) (Match, error) {
	current := path
	for hops := 0; hops <= maxRedirects; hops++ {
		route, params, ok := t.lookup(current)
		if !ok {
			return Match{}, fmt.Errorf("%w: %q", ErrNoRoute, path)
		}
		if route.RedirectTo != "" {
			current = route.RedirectTo
			continue
		}
		return Match{
			Route:  route,
			Path:   "/" + normalize(current),
			Params: params,
		}, nil
	}
	return Match{}, fmt.Errorf("%w: redirect loop at %q", ErrNoRoute, path)
}

func (t Table) lookup(path string) (Route, map[string]int64, bool) {
	segs := split(normalize(path))
	for _, r := range t {
		if params, ok := matchSegments(split(r.Path), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func matchSegments(pattern, segs []string) (map[string]int64, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]int64{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			v, err := strconv.ParseInt(segs[i], 10, 64)
			if err != nil {
				return nil, false
			}
			params[name] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// normalize strips the query, the leading slash and any trailing slash
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.Trim(path, "/")
}

func split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// DetailPath builds the detail route for a course id
func DetailPath(id int64) string {
	return "/detail/" + strconv.FormatInt(id, 10)
}
