package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/notium/internal"
)

const previewLength = 72

type listLoadedMsg struct {
	mounted
	key   internal.QueryKey
	notes []internal.Note
	err   error
}

type tagsLoadedMsg struct {
	mounted
	tags []string
	err  error
}

type starDoneMsg struct {
	mounted
	note *internal.Note
	err  error
}

// listHelp adapts the list bindings to the bubbles help view
type listHelp struct{}

func (listHelp) ShortHelp() []key.Binding {
	return []key.Binding{keys.Open, keys.New, keys.Star, keys.Search, keys.Tag, keys.Starred, keys.Clear, keys.Logout, keys.Exit}
}

func (listHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Up, keys.Down, keys.Open, keys.New, keys.Star},
		{keys.Search, keys.Tag, keys.Starred, keys.Clear, keys.Refresh},
		{keys.Logout, keys.Exit},
	}
}

type listScreen struct {
	base
	filter    internal.Filter
	notes     []internal.Note
	tags      []string
	cursor    int
	loading   bool
	stale     bool
	err       string
	searching bool
	search    textinput.Model
	help      help.Model
}

func newListScreen(b base) *listScreen {
	search := newInput("search title or content", false)
	search.Width = 30
	return &listScreen{
		base:   b,
		search: search,
		help:   help.New(),
	}
}

func (s *listScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.loadTags())
}

// load shows any cached result for the current filter and fetches in the background
func (s *listScreen) load() tea.Cmd {
	filter := s.filter
	qk := internal.NotesListKey(filter)
	if notes, stale, ok := internal.Cached[[]internal.Note](s.deps.Queries.Cache(), qk); ok {
		s.setNotes(notes)
		s.stale = stale
	}
	s.loading = true

	scope, queries := s.scope(), s.deps.Queries
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		notes, err := queries.List(ctx, filter)
		return listLoadedMsg{mounted: scope, key: qk, notes: notes, err: err}
	}
}

func (s *listScreen) loadTags() tea.Cmd {
	scope, queries := s.scope(), s.deps.Queries
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		tags, err := queries.AllTags(ctx)
		return tagsLoadedMsg{mounted: scope, tags: tags, err: err}
	}
}

func (s *listScreen) toggleStar(id int64) tea.Cmd {
	scope, queries := s.scope(), s.deps.Queries
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		note, err := queries.ToggleStar(ctx, id)
		return starDoneMsg{mounted: scope, note: note, err: err}
	}
}

func (s *listScreen) setNotes(notes []internal.Note) {
	s.notes = notes
	if s.cursor >= len(notes) {
		s.cursor = len(notes) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *listScreen) applyFilter(f internal.Filter) tea.Cmd {
	s.filter = f
	s.cursor = 0
	s.notes = nil
	return s.load()
}

// nextTag cycles the tag filter through "all" and every known tag
func (s *listScreen) nextTag() string {
	if len(s.tags) == 0 {
		return ""
	}
	if s.filter.Tag == "" {
		return s.tags[0]
	}
	for i, t := range s.tags {
		if t == s.filter.Tag {
			if i+1 < len(s.tags) {
				return s.tags[i+1]
			}
			return ""
		}
	}
	return ""
}

func (s *listScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg:
		if !msg.key.Equal(internal.NotesListKey(s.filter)) {
			return s, nil
		}
		s.loading = false
		if msg.err != nil {
			s.err = internal.ErrorMessage(msg.err)
			return s, nil
		}
		s.err = ""
		s.stale = false
		s.setNotes(msg.notes)
		return s, nil

	case tagsLoadedMsg:
		if msg.err == nil {
			s.tags = msg.tags
		}
		return s, nil

	case starDoneMsg:
		if msg.err != nil {
			s.err = internal.ErrorMessage(msg.err)
			return s, nil
		}
		return s, s.load()

	case tea.KeyMsg:
		if s.searching {
			return s.updateSearch(msg)
		}
		return s.updateKeys(msg)
	}
	return s, nil
}

func (s *listScreen) updateSearch(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit), key.Matches(msg, keys.Back):
		s.searching = false
		s.search.Blur()
		return s, nil
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if q := strings.TrimSpace(s.search.Value()); q != s.filter.Search {
		f := s.filter
		f.Search = q
		return s, tea.Batch(cmd, s.applyFilter(f))
	}
	return s, cmd
}

func (s *listScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Exit):
		return s, tea.Quit
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < len(s.notes)-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.Open):
		if n, ok := s.selected(); ok {
			return s, navigate(internal.NotePath(n.ID))
		}
	case key.Matches(msg, keys.New):
		return s, navigate(internal.NewNotePath)
	case key.Matches(msg, keys.Star):
		if n, ok := s.selected(); ok {
			return s, s.toggleStar(n.ID)
		}
	case key.Matches(msg, keys.Search):
		s.searching = true
		s.search.SetValue(s.filter.Search)
		s.search.CursorEnd()
		s.search.Focus()
	case key.Matches(msg, keys.Tag):
		f := s.filter
		f.Tag = s.nextTag()
		return s, s.applyFilter(f)
	case key.Matches(msg, keys.Starred):
		return s, s.applyFilter(s.filter.ToggleStarred())
	case key.Matches(msg, keys.Clear):
		if s.filter.Active() {
			s.search.SetValue("")
			return s, s.applyFilter(internal.Filter{})
		}
	case key.Matches(msg, keys.Refresh):
		s.deps.Queries.Cache().Invalidate(internal.AllNotesKey)
		return s, tea.Batch(s.load(), s.loadTags())
	case key.Matches(msg, keys.Logout):
		if err := s.deps.Session.Logout(); err != nil {
			return s, navigateWithFlash(internal.LoginPath, "Signed out, but the stored credential could not be removed: "+internal.ErrorMessage(err))
		}
		return s, navigateWithFlash(internal.LoginPath, "Signed out")
	}
	return s, nil
}

func (s *listScreen) selected() (internal.Note, bool) {
	if s.cursor < 0 || s.cursor >= len(s.notes) {
		return internal.Note{}, false
	}
	return s.notes[s.cursor], true
}

func (s *listScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Notes"))
	if s.loading {
		b.WriteString(dimStyle.Render("  loading..."))
	} else if s.stale {
		b.WriteString(dimStyle.Render("  (stale)"))
	}
	b.WriteString("\n\n")

	b.WriteString(s.filterLine())
	b.WriteString("\n\n")

	if s.err != "" {
		b.WriteString(errorLineStyle.Render(s.err))
		b.WriteString("\n\n")
	}

	switch {
	case len(s.notes) == 0 && s.loading:
	case len(s.notes) == 0 && s.filter.Active():
		b.WriteString(dimStyle.Render("No notes match these filters."))
		b.WriteString("\n")
	case len(s.notes) == 0:
		b.WriteString(dimStyle.Render("No notes yet. Press n to create one."))
		b.WriteString("\n")
	default:
		for i, n := range s.notes {
			b.WriteString(s.card(n, i == s.cursor))
		}
	}

	b.WriteString("\n")
	b.WriteString(s.help.View(listHelp{}))
	b.WriteString("\n")
	return b.String()
}

func (s *listScreen) filterLine() string {
	var parts []string
	if s.searching {
		parts = append(parts, labelStyle.Render("Search: ")+s.search.View())
	} else if s.filter.Search != "" {
		parts = append(parts, labelStyle.Render("Search: ")+s.filter.Search)
	}

	tag := "all"
	if s.filter.Tag != "" {
		tag = tagStyle.Render("#" + s.filter.Tag)
	}
	parts = append(parts, labelStyle.Render("Tag: ")+tag)

	if s.filter.StarredOnly != nil && *s.filter.StarredOnly {
		parts = append(parts, starStyle.Render("★ starred only"))
	}
	if s.filter.Active() {
		parts = append(parts, dimStyle.Render("c: clear filters"))
	}
	return strings.Join(parts, "   ")
}

func (s *listScreen) card(n internal.Note, selected bool) string {
	star := "☆"
	if n.Starred {
		star = starStyle.Render("★")
	}
	title := n.Title
	if selected {
		title = selectedStyle.Render(" " + title + " ")
	}

	var tags []string
	for _, name := range n.TagNames() {
		tags = append(tags, tagStyle.Render("#"+name))
	}

	marker := "  "
	if selected {
		marker = titleStyle.Render("> ")
	}
	line := fmt.Sprintf("%s%s %s  %s", marker, star, title, dimStyle.Render(internal.FormatNoteDate(n.UpdatedAt)))
	if len(tags) > 0 {
		line += "  " + strings.Join(tags, " ")
	}
	return line + "\n    " + dimStyle.Render(internal.Preview(n.Content, previewLength)) + "\n"
}
