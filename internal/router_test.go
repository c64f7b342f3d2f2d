package internal

import (
	"errors"
	"testing"
)

func TestRouter_Resolve(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		state          SessionState
		redirectGuests bool
		wantView       View
		wantPath       string
		wantRedirected bool
		wantID         string
	}{
		{name: "loading shows placeholder", path: "/notes", state: StateLoading, wantView: ViewLoading, wantPath: "/notes"},
		{name: "loading on login", path: "/login", state: StateLoading, wantView: ViewLoading, wantPath: "/login"},
		{name: "notes requires auth", path: "/notes", state: StateUnauthenticated, wantView: ViewLogin, wantPath: "/login", wantRedirected: true},
		{name: "editor requires auth", path: "/notes/5", state: StateUnauthenticated, wantView: ViewLogin, wantPath: "/login", wantRedirected: true},
		{name: "notes when signed in", path: "/notes", state: StateAuthenticated, wantView: ViewNotes, wantPath: "/notes"},
		{name: "editor params", path: "/notes/5", state: StateAuthenticated, wantView: ViewEditor, wantPath: "/notes/5", wantID: "5"},
		{name: "new note sentinel", path: "/notes/new", state: StateAuthenticated, wantView: ViewEditor, wantPath: "/notes/new", wantID: "new"},
		{name: "root signed in", path: "/", state: StateAuthenticated, wantView: ViewNotes, wantPath: "/notes", wantRedirected: true},
		{name: "root signed out", path: "/", state: StateUnauthenticated, wantView: ViewLogin, wantPath: "/login", wantRedirected: true},
		{name: "login as guest", path: "/login", state: StateUnauthenticated, wantView: ViewLogin, wantPath: "/login"},
		{name: "sign-up as guest", path: "/sign-up", state: StateUnauthenticated, wantView: ViewSignUp, wantPath: "/sign-up"},
		{name: "login while signed in stays by default", path: "/login", state: StateAuthenticated, wantView: ViewLogin, wantPath: "/login"},
		{name: "login while signed in redirects when enabled", path: "/login", state: StateAuthenticated, redirectGuests: true, wantView: ViewNotes, wantPath: "/notes", wantRedirected: true},
		{name: "sign-up while signed in redirects when enabled", path: "/sign-up", state: StateAuthenticated, redirectGuests: true, wantView: ViewNotes, wantPath: "/notes", wantRedirected: true},
		{name: "unknown path", path: "/nope", state: StateUnauthenticated, wantView: ViewNotFound, wantPath: "/nope"},
		{name: "unknown nested path", path: "/notes/1/extra", state: StateAuthenticated, wantView: ViewNotFound, wantPath: "/notes/1/extra"},
		{name: "trailing slash and query", path: "/notes/?tag=x", state: StateAuthenticated, wantView: ViewNotes, wantPath: "/notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(RouterOptions{RedirectAuthenticatedGuests: tt.redirectGuests})
			got := r.Resolve(tt.path, tt.state)
			if got.View != tt.wantView {
				t.Errorf("View = %q, want %q", got.View, tt.wantView)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Redirected != tt.wantRedirected {
				t.Errorf("Redirected = %v, want %v", got.Redirected, tt.wantRedirected)
			}
			if tt.wantID != "" && got.Params["id"] != tt.wantID {
				t.Errorf("Params[id] = %q, want %q", got.Params["id"], tt.wantID)
			}
		})
	}
}

func TestRouter_RedirectLoopIsBounded(t *testing.T) {
	r := &Router{routes: []Route{
		{Pattern: "/a", RedirectTo: "/b"},
		{Pattern: "/b", RedirectTo: "/a"},
	}}
	got := r.Resolve("/a", StateAuthenticated)
	if got.View != ViewNotFound {
		t.Errorf("View = %q, want not-found", got.View)
	}
}

func TestRouter_Enter(t *testing.T) {
	nav := NewNavigator("/")
	r := NewRouter(RouterOptions{})

	var moves []string
	nav.Subscribe(func(from, to string) { moves = append(moves, to) })

	res := r.Enter(nav, "/notes/3", StateUnauthenticated)
	if res.View != ViewLogin || nav.Current() != LoginPath {
		t.Errorf("Enter() = %+v, current %q", res, nav.Current())
	}
	if len(moves) != 1 || moves[0] != LoginPath {
		t.Errorf("moves = %v", moves)
	}
}

func TestParseNoteRef(t *testing.T) {
	tests := []struct {
		param   string
		want    NoteRef
		wantErr bool
	}{
		{"new", NoteRef{New: true}, false},
		{"42", NoteRef{ID: 42}, false},
		{"0", NoteRef{}, true},
		{"-3", NoteRef{}, true},
		{"abc", NoteRef{}, true},
		{"", NoteRef{}, true},
		{"New", NoteRef{}, true},
	}
	for _, tt := range tests {
		got, err := ParseNoteRef(tt.param)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNoteRef(%q) error = %v", tt.param, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("ParseNoteRef(%q) error = %v, want ErrNoteNotFound", tt.param, err)
		}
		if got != tt.want {
			t.Errorf("ParseNoteRef(%q) = %+v, want %+v", tt.param, got, tt.want)
		}
	}
}

func TestNotePath(t *testing.T) {
	if got := NotePath(7); got != "/notes/7" {
		t.Errorf("NotePath(7) = %q", got)
	}
}

func TestNavigator(t *testing.T) {
	nav := NewNavigator("/login")
	var seen [][2]string
	unsubscribe := nav.Subscribe(func(from, to string) { seen = append(seen, [2]string{from, to}) })

	nav.Navigate("/notes")
	nav.Navigate("/notes") // no change, no event
	unsubscribe()
	nav.Navigate("/login")

	if len(seen) != 1 || seen[0] != [2]string{"/login", "/notes"} {
		t.Errorf("events = %v", seen)
	}
	if nav.Current() != "/login" {
		t.Errorf("Current() = %q", nav.Current())
	}
}
