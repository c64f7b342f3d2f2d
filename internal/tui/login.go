package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/notium/internal"
)

const requestTimeout = 30 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

type authDoneMsg struct {
	mounted
	err error
}

type loginScreen struct {
	base
	fields     fieldSet
	submitting bool
	err        string
}

func newLoginScreen(b base) *loginScreen {
	return &loginScreen{
		base: b,
		fields: newFieldSet(
			[]string{"Username", "Password"},
			[]textinput.Model{newInput("username", false), newInput("password", true)},
		),
	}
}

func (s *loginScreen) Init() tea.Cmd { return nil }

func (s *loginScreen) submit() tea.Cmd {
	creds := internal.LoginCredentials{
		Username: strings.TrimSpace(s.fields.value(0)),
		Password: s.fields.value(1),
	}
	s.submitting = true
	s.err = ""
	scope, session := s.scope(), s.deps.Session
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return authDoneMsg{mounted: scope, err: session.Login(ctx, creds)}
	}
}

func (s *loginScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		s.submitting = false
		if msg.err != nil {
			s.err = internal.ErrorMessage(msg.err)
			return s, nil
		}
		return s, navigate(internal.NotesPath)

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		switch {
		case key.Matches(msg, keys.SignUp):
			return s, navigate(internal.SignUpPath)
		case key.Matches(msg, keys.Next):
			s.fields.next()
			return s, nil
		case key.Matches(msg, keys.Prev):
			s.fields.prev()
			return s, nil
		case key.Matches(msg, keys.Submit):
			if !s.fields.onLast() {
				s.fields.next()
				return s, nil
			}
			return s, s.submit()
		}
	}
	return s, s.fields.update(msg)
}

func (s *loginScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(s.fields.view())
	if s.err != "" {
		b.WriteString(errorLineStyle.Render(s.err))
		b.WriteString("\n\n")
	}
	if s.submitting {
		b.WriteString(dimStyle.Render("Signing in..."))
	} else {
		b.WriteString(dimStyle.Render("enter: sign in • tab: next field • ctrl+n: create an account"))
	}
	b.WriteString("\n")
	return b.String()
}
