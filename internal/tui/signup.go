package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/notium/internal"
)

const (
	signUpUsername = iota
	signUpEmail
	signUpPassword
	signUpConfirm
)

type signUpScreen struct {
	base
	fields     fieldSet
	submitting bool
	err        string
}

func newSignUpScreen(b base) *signUpScreen {
	return &signUpScreen{
		base: b,
		fields: newFieldSet(
			[]string{"Username", "Email", "Password", "Confirm password"},
			[]textinput.Model{
				newInput("username", false),
				newInput("you@example.com", false),
				newInput("password", true),
				newInput("repeat password", true),
			},
		),
	}
}

func (s *signUpScreen) Init() tea.Cmd { return nil }

func (s *signUpScreen) submit() tea.Cmd {
	password := s.fields.value(signUpPassword)
	if err := internal.ConfirmPassword(password, s.fields.value(signUpConfirm)); err != nil {
		s.err = internal.ErrorMessage(err)
		return nil
	}

	payload := internal.RegisterPayload{
		Username: strings.TrimSpace(s.fields.value(signUpUsername)),
		Email:    strings.TrimSpace(s.fields.value(signUpEmail)),
		Password: password,
	}
	s.submitting = true
	s.err = ""
	scope, session := s.scope(), s.deps.Session
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return authDoneMsg{mounted: scope, err: session.Register(ctx, payload)}
	}
}

func (s *signUpScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
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
		case key.Matches(msg, keys.Login), key.Matches(msg, keys.Back):
			return s, navigate(internal.LoginPath)
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

func (s *signUpScreen) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create an account"))
	b.WriteString("\n\n")
	b.WriteString(s.fields.view())
	if s.err != "" {
		b.WriteString(errorLineStyle.Render(s.err))
		b.WriteString("\n\n")
	}
	if s.submitting {
		b.WriteString(dimStyle.Render("Creating account..."))
	} else {
		b.WriteString(dimStyle.Render("enter: sign up • tab: next field • ctrl+l: sign in instead"))
	}
	b.WriteString("\n")
	return b.String()
}
