package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/notium/internal"
)

// Deps are the client components the interactive UI drives
type Deps struct {
	Session *internal.Session
	Queries *internal.NoteQueries
	Router  *internal.Router
	Nav     *internal.Navigator
}

// screen is one mounted view
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// mounted tags async results with the mount they belong to
type mounted struct {
	seq int
}

func (m mounted) mountSeq() int { return m.seq }

type scoped interface {
	mountSeq() int
}

// base is embedded by every screen
type base struct {
	deps Deps
	seq  int
}

func (b base) scope() mounted {
	return mounted{seq: b.seq}
}

type navigateMsg struct {
	path  string
	flash string
}

func navigate(path string) tea.Cmd {
	return navigateWithFlash(path, "")
}

func navigateWithFlash(path, flash string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path, flash: flash} }
}

type sessionChangedMsg struct {
	change internal.SessionChange
}

func waitForChange(ch <-chan internal.SessionChange) tea.Cmd {
	return func() tea.Msg {
		return sessionChangedMsg{change: <-ch}
	}
}

// App is the root bubbletea model. It mounts one screen per resolved route.
type App struct {
	deps        Deps
	start       string
	screen      screen
	res         internal.Resolution
	seq         int
	changes     chan internal.SessionChange
	unsubscribe func()
	flash       string
	quitting    bool
}

// New creates the UI starting at path
func New(deps Deps, start string) *App {
	a := &App{
		deps:    deps,
		start:   start,
		screen:  loadingScreen{},
		changes: make(chan internal.SessionChange, 16),
	}
	a.unsubscribe = deps.Session.Subscribe(func(c internal.SessionChange) {
		select {
		case a.changes <- c:
		default:
			internal.LogWarn("Dropped session change %s", c.Reason)
		}
	})
	return a
}

// Run starts the interactive UI and blocks until it exits
func Run(deps Deps, start string) error {
	app := New(deps, start)
	defer app.unsubscribe()

	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

// Init resolves the session and mounts the start route
func (a *App) Init() tea.Cmd {
	a.deps.Session.Init()
	return tea.Batch(a.mount(a.start), waitForChange(a.changes))
}

// mount resolves path through the router and swaps in the matching screen.
// Results addressed to the previous screen are dropped from now on.
func (a *App) mount(path string) tea.Cmd {
	res := a.deps.Router.Enter(a.deps.Nav, path, a.deps.Session.State())
	a.res = res
	a.seq++
	b := base{deps: a.deps, seq: a.seq}

	switch res.View {
	case internal.ViewLoading:
		a.screen = loadingScreen{}
	case internal.ViewLogin:
		a.screen = newLoginScreen(b)
	case internal.ViewSignUp:
		a.screen = newSignUpScreen(b)
	case internal.ViewNotes:
		a.screen = newListScreen(b)
	case internal.ViewEditor:
		ref, err := internal.ParseNoteRef(res.Params["id"])
		if err != nil {
			a.screen = notFoundScreen{path: res.Path}
			break
		}
		a.screen = newEditorScreen(b, ref)
	default:
		a.screen = notFoundScreen{path: res.Path}
	}
	internal.LogDebug("mounted %s at %s (seq %d)", res.View, res.Path, a.seq)
	return a.screen.Init()
}

// Update routes messages to the mounted screen
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}

	case navigateMsg:
		a.flash = msg.flash
		return a, a.mount(msg.path)

	case sessionChangedMsg:
		next := waitForChange(a.changes)
		if msg.change.Reason == internal.ReasonExpired {
			a.flash = "Your session has expired, please sign in again"
			return a, tea.Batch(next, a.mount(internal.LoginPath))
		}
		return a, next

	case scoped:
		if msg.mountSeq() != a.seq {
			internal.LogDebug("dropping %T for an unmounted view", msg)
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

// View renders the header, flash line and mounted screen
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", brandStyle.Render("Notium"), pathStyle.Render(a.res.Path))
	if a.flash != "" {
		b.WriteString(flashStyle.Render(a.flash))
		b.WriteString("\n\n")
	}
	b.WriteString(a.screen.View())
	return b.String()
}

// Path returns the path of the mounted screen
func (a *App) Path() string {
	return a.res.Path
}

// CurrentView returns the view kind of the mounted screen
func (a *App) CurrentView() internal.View {
	return a.res.View
}

type loadingScreen struct{}

func (loadingScreen) Init() tea.Cmd                      { return nil }
func (s loadingScreen) Update(tea.Msg) (screen, tea.Cmd) { return s, nil }
func (loadingScreen) View() string                       { return dimStyle.Render("Loading...") + "\n" }

type notFoundScreen struct {
	path string
}

func (notFoundScreen) Init() tea.Cmd { return nil }

func (s notFoundScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Submit), key.Matches(k, keys.Back):
			return s, navigate(internal.NotesPath)
		case key.Matches(k, keys.Exit):
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s notFoundScreen) View() string {
	return titleStyle.Render("Page not found") + "\n\n" +
		dimStyle.Render(fmt.Sprintf("Nothing lives at %s.", s.path)) + "\n\n" +
		dimStyle.Render("enter: back to notes • q: quit") + "\n"
}
