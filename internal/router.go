package internal

import (
	"errors"
	"strconv"
	"strings"
)

// View names a screen of the client
type View string

const (
	ViewLoading  View = "loading"
	ViewLogin    View = "login"
	ViewSignUp   View = "sign-up"
	ViewNotes    View = "notes"
	ViewEditor   View = "editor"
	ViewNotFound View = "not-found"
)

// Well-known paths
const (
	SignUpPath  = "/sign-up"
	NotesPath   = "/notes"
	NewNotePath = "/notes/new"
)

// GuardPolicy decides who may enter a route
type GuardPolicy int

const (
	PolicyPublic GuardPolicy = iota
	PolicyRequiresAuth
	PolicyRequiresGuest
)

// Route is one entry of the path table. Segments starting with ':' are parameters; "*" matches anything.
type Route struct {
	Pattern    string
	View       View
	Policy     GuardPolicy
	RedirectTo string
}

// Resolution is the outcome of resolving a path
type Resolution struct {
	View       View
	Params     map[string]string
	Path       string // final path after redirects
	Redirected bool
}

// RouterOptions holds guard switches
type RouterOptions struct {
	RedirectAuthenticatedGuests bool
}

const maxRedirects = 8

// DefaultRoutes is the client's route table, matched in order
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: LoginPath, View: ViewLogin, Policy: PolicyRequiresGuest},
		{Pattern: SignUpPath, View: ViewSignUp, Policy: PolicyRequiresGuest},
		{Pattern: NotesPath, View: ViewNotes, Policy: PolicyRequiresAuth},
		{Pattern: "/notes/:id", View: ViewEditor, Policy: PolicyRequiresAuth},
		{Pattern: "/", RedirectTo: NotesPath},
		{Pattern: "*", View: ViewNotFound},
	}
}

// Router maps paths to views and applies route guards
type Router struct {
	routes []Route
	opts   RouterOptions
}

// NewRouter creates a router over DefaultRoutes
func NewRouter(opts RouterOptions) *Router {
	return &Router{routes: DefaultRoutes(), opts: opts}
}

// Resolve picks the view for path given the session state. While the session is
// loading only the placeholder view is produced.
func (r *Router) Resolve(path string, state SessionState) Resolution {
	path = cleanPath(path)
	if state == StateLoading {
		return Resolution{View: ViewLoading, Path: path}
	}

	redirected := false
	for i := 0; i <= maxRedirects; i++ {
		route, params := r.match(path)
		target := r.redirectFor(route, state)
		if target == "" {
			return Resolution{View: route.View, Params: params, Path: path, Redirected: redirected}
		}
		LogDebug("route %s redirects to %s", path, target)
		path = target
		redirected = true
	}

	LogWarn("Too many redirects resolving %s", path)
	return Resolution{View: ViewNotFound, Path: path, Redirected: redirected}
}

func (r *Router) redirectFor(route Route, state SessionState) string {
	switch {
	case route.RedirectTo != "":
		return route.RedirectTo
	case route.Policy == PolicyRequiresAuth && state != StateAuthenticated:
		return LoginPath
	case route.Policy == PolicyRequiresGuest && state == StateAuthenticated && r.opts.RedirectAuthenticatedGuests:
		return NotesPath
	}
	return ""
}

func (r *Router) match(path string) (Route, map[string]string) {
	segments := splitPath(path)
	for _, route := range r.routes {
		if route.Pattern == "*" {
			return route, nil
		}
		if params, ok := matchPattern(splitPath(route.Pattern), segments); ok {
			return route, params
		}
	}
	return Route{View: ViewNotFound}, nil
}

func matchPattern(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Enter resolves path and moves nav to the resolved path
func (r *Router) Enter(nav *Navigator, path string, state SessionState) Resolution {
	res := r.Resolve(path, state)
	nav.Navigate(res.Path)
	return res
}

// NotePath is the editor path of a note
func NotePath(id int64) string {
	return NotesPath + "/" + strconv.FormatInt(id, 10)
}

// ErrNoteNotFound is returned for editor paths that name no note
var ErrNoteNotFound = errors.New("note not found")

// NoteRef is the parsed :id parameter of the editor route
type NoteRef struct {
	New bool
	ID  int64
}

// ParseNoteRef accepts "new" or a positive integer id
func ParseNoteRef(param string) (NoteRef, error) {
	if param == "new" {
		return NoteRef{New: true}, nil
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return NoteRef{}, ErrNoteNotFound
	}
	return NoteRef{ID: id}, nil
}
