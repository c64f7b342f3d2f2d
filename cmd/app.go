package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/internal/tui"
)

// errNotSignedIn is returned when a command's route requires a session
var errNotSignedIn = errors.New("not signed in: run 'notium login' first")

// clientApp holds the wired client for one command invocation
type clientApp struct {
	cfg     *internal.Config
	tokens  internal.TokenStore
	client  *internal.APIClient
	nav     *internal.Navigator
	session *internal.Session
	queries *internal.NoteQueries
	router  *internal.Router

	cleanup []func()
	closer  func() error
}

// openApp loads config, opens the credential store and wires the client layers
func openApp() (*clientApp, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	if !verbose {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.Log.Level))
	}

	app := &clientApp{cfg: cfg}
	if ephemeral {
		app.tokens = internal.NewMemoryTokenStore("")
	} else {
		path, err := cfg.StoragePath()
		if err != nil {
			return nil, err
		}
		store, err := internal.OpenStorage(path)
		if err != nil {
			return nil, err
		}
		internal.LogDebug("credential store: %s", path)
		app.tokens = store
		app.closer = store.Close
	}

	app.nav = internal.NewNavigator("/")
	app.client = internal.NewAPIClient(cfg.API, app.tokens, app.nav)
	app.session = internal.NewSession(internal.NewAuthAPI(app.client), app.tokens, app.nav)
	app.cleanup = append(app.cleanup, app.session.Attach(app.client))

	cache := internal.NewQueryClient(internal.QueryOptionsFromConfig(cfg.Query))
	app.cleanup = append(app.cleanup, internal.ResetOnLogout(app.session, cache))
	app.queries = internal.NewNoteQueries(internal.NewNotesAPI(app.client), cache)
	app.router = internal.NewRouter(internal.RouterOptions{
		RedirectAuthenticatedGuests: cfg.Guard.RedirectAuthenticatedGuests,
	})

	app.session.Init()
	return app, nil
}

// Close releases the credential store
func (a *clientApp) Close() {
	for _, fn := range a.cleanup {
		fn()
	}
	if a.closer != nil {
		if err := a.closer(); err != nil {
			internal.LogWarn("Failed to close credential store: %v", err)
		}
	}
}

// enter moves the client to path and fails when the guard sends it elsewhere
func (a *clientApp) enter(path string, want internal.View) (internal.Resolution, error) {
	res := a.router.Enter(a.nav, path, a.session.State())
	internal.LogDebug("route %s resolved to %s (%s)", path, res.Path, res.View)
	switch {
	case res.View == want:
		return res, nil
	case res.View == internal.ViewLogin:
		return res, errNotSignedIn
	default:
		return res, fmt.Errorf("cannot open %s: resolved to %s", path, res.Path)
	}
}

func parseNoteID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

// enterNote enters the editor route of the note named by arg
func (a *clientApp) enterNote(arg string) (int64, error) {
	id, err := parseNoteID(arg)
	if err != nil {
		return 0, err
	}
	if _, err := a.enter(internal.NotePath(id), internal.ViewEditor); err != nil {
		return 0, err
	}
	return id, nil
}

// tuiDeps exposes the wired client to the interactive UI
func (a *clientApp) tuiDeps() tui.Deps {
	return tui.Deps{
		Session: a.session,
		Queries: a.queries,
		Router:  a.router,
		Nav:     a.nav,
	}
}

func (a *clientApp) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*a.cfg.API.Timeout)
}
