package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/notium/internal"
)

const (
	editorTitle = iota
	editorTags
	editorContent
)

type noteLoadedMsg struct {
	mounted
	note *internal.Note
	err  error
}

type noteSavedMsg struct {
	mounted
	note    *internal.Note
	created bool
	err     error
}

type noteDeletedMsg struct {
	mounted
	err error
}

type editorScreen struct {
	base
	ref        internal.NoteRef
	note       *internal.Note
	fields     fieldSet
	content    textarea.Model
	focus      int
	loading    bool
	notFound   bool
	loadFailed bool
	saving     bool
	confirming bool
	err        string
}

func newEditorScreen(b base, ref internal.NoteRef) *editorScreen {
	content := textarea.New()
	content.Placeholder = "Write your note..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetWidth(60)
	content.SetHeight(10)
	content.Cursor.SetMode(cursor.CursorStatic)

	s := &editorScreen{
		base: b,
		ref:  ref,
		fields: newFieldSet(
			[]string{"Title", "Tags (comma separated)"},
			[]textinput.Model{newInput("title", false), newInput("work, ideas", false)},
		),
		content: content,
		loading: !ref.New,
	}
	s.focusAt(editorTitle)
	return s
}

func (s *editorScreen) Init() tea.Cmd {
	if s.ref.New {
		return nil
	}
	scope, queries, id := s.scope(), s.deps.Queries, s.ref.ID
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		note, err := queries.Get(ctx, id)
		return noteLoadedMsg{mounted: scope, note: note, err: err}
	}
}

func (s *editorScreen) focusAt(i int) {
	s.focus = i
	if i == editorContent {
		s.fields.focusAt(-1)
		s.content.Focus()
		return
	}
	s.content.Blur()
	s.fields.focusAt(i)
}

func (s *editorScreen) draft() internal.Draft {
	return internal.Draft{
		Title:   s.fields.value(editorTitle),
		Content: s.content.Value(),
		Tags:    s.fields.value(editorTags),
	}
}

func (s *editorScreen) fill(d internal.Draft) {
	s.fields.set(editorTitle, d.Title)
	s.fields.set(editorTags, d.Tags)
	s.content.SetValue(d.Content)
}

func (s *editorScreen) save() tea.Cmd {
	// an existing note is only saved over what was loaded
	if !s.ref.New && s.note == nil {
		return nil
	}
	d := s.draft()
	if err := d.Validate(); err != nil {
		s.err = err.Error()
		return nil
	}
	s.saving = true
	s.err = ""

	scope, queries, ref := s.scope(), s.deps.Queries, s.ref
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if ref.New {
			note, err := queries.Create(ctx, d.NoteIn())
			return noteSavedMsg{mounted: scope, note: note, created: true, err: err}
		}
		note, err := queries.Update(ctx, ref.ID, internal.FullUpdate(d.NoteIn()))
		return noteSavedMsg{mounted: scope, note: note, err: err}
	}
}

func (s *editorScreen) delete() tea.Cmd {
	s.saving = true
	scope, queries, id := s.scope(), s.deps.Queries, s.ref.ID
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return noteDeletedMsg{mounted: scope, err: queries.Delete(ctx, id)}
	}
}

func (s *editorScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noteLoadedMsg:
		s.loading = false
		if msg.err != nil {
			if internal.IsNotFound(msg.err) {
				s.notFound = true
				return s, nil
			}
			s.loadFailed = true
			s.err = internal.ErrorMessage(msg.err)
			return s, nil
		}
		s.loadFailed = false
		s.err = ""
		s.note = msg.note
		s.fill(internal.DraftFromNote(msg.note))
		return s, nil

	case noteSavedMsg:
		s.saving = false
		if msg.err != nil {
			s.err = internal.ErrorMessage(msg.err)
			return s, nil
		}
		if msg.created {
			return s, navigateWithFlash(internal.NotesPath, "Note created")
		}
		return s, navigateWithFlash(internal.NotesPath, "Note saved")

	case noteDeletedMsg:
		s.saving = false
		if msg.err != nil {
			s.err = internal.ErrorMessage(msg.err)
			return s, nil
		}
		return s, navigateWithFlash(internal.NotesPath, "Note deleted")

	case tea.KeyMsg:
		return s.updateKeys(msg)
	}
	return s, nil
}

func (s *editorScreen) updateKeys(msg tea.KeyMsg) (screen, tea.Cmd) {
	if s.saving {
		return s, nil
	}
	if s.loadFailed {
		switch {
		case key.Matches(msg, keys.Refresh):
			s.loadFailed = false
			s.loading = true
			return s, s.Init()
		case key.Matches(msg, keys.Back) || key.Matches(msg, keys.Submit):
			return s, navigate(internal.NotesPath)
		}
		return s, nil
	}
	if s.notFound || s.loading {
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Submit) {
			return s, navigate(internal.NotesPath)
		}
		return s, nil
	}
	if s.confirming {
		s.confirming = false
		if key.Matches(msg, keys.Confirm) {
			return s, s.delete()
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		return s, navigate(internal.NotesPath)
	case key.Matches(msg, keys.Save):
		return s, s.save()
	case key.Matches(msg, keys.Delete):
		if !s.ref.New {
			s.confirming = true
		}
		return s, nil
	case key.Matches(msg, keys.Next):
		s.focusAt((s.focus + 1) % 3)
		return s, nil
	case key.Matches(msg, keys.Prev):
		s.focusAt((s.focus + 2) % 3)
		return s, nil
	case key.Matches(msg, keys.Submit) && s.focus != editorContent:
		s.focusAt(s.focus + 1)
		return s, nil
	}

	var cmd tea.Cmd
	if s.focus == editorContent {
		s.content, cmd = s.content.Update(msg)
	} else {
		cmd = s.fields.update(msg)
	}
	return s, cmd
}

func (s *editorScreen) View() string {
	var b strings.Builder
	switch {
	case s.notFound:
		b.WriteString(titleStyle.Render("Note not found"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("It may have been deleted. esc: back to notes"))
		b.WriteString("\n")
		return b.String()
	case s.loadFailed:
		b.WriteString(titleStyle.Render("Could not load note"))
		b.WriteString("\n\n")
		b.WriteString(errorLineStyle.Render(s.err))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("r: retry  esc: back to notes"))
		b.WriteString("\n")
		return b.String()
	case s.loading:
		b.WriteString(dimStyle.Render("Loading note..."))
		b.WriteString("\n")
		return b.String()
	case s.ref.New:
		b.WriteString(titleStyle.Render("New note"))
	default:
		b.WriteString(titleStyle.Render("Edit note"))
		if s.note != nil && s.note.Starred {
			b.WriteString(" " + starStyle.Render("★"))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(s.fields.view())

	marker := "  "
	if s.focus == editorContent {
		marker = titleStyle.Render("> ")
	}
	b.WriteString(marker + labelStyle.Render("Content") + "\n")
	b.WriteString(s.content.View())
	b.WriteString("\n\n")

	if s.err != "" {
		b.WriteString(errorLineStyle.Render(s.err))
		b.WriteString("\n\n")
	}

	switch {
	case s.confirming:
		b.WriteString(errorLineStyle.Render("Delete this note? (y/N)"))
	case s.saving:
		b.WriteString(dimStyle.Render("Saving..."))
	case s.ref.New:
		b.WriteString(dimStyle.Render("ctrl+s: save • tab: next field • esc: back"))
	default:
		b.WriteString(dimStyle.Render("ctrl+s: save • ctrl+d: delete • tab: next field • esc: back"))
	}
	b.WriteString("\n")
	return b.String()
}
