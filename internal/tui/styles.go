package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var (
	brandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Bold(true)

	starStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	errorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

type keyMap struct {
	Quit    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Back    key.Binding
	SignUp  key.Binding
	Login   key.Binding
	Search  key.Binding
	Tag     key.Binding
	Starred key.Binding
	Clear   key.Binding
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	New     key.Binding
	Star    key.Binding
	Refresh key.Binding
	Logout  key.Binding
	Exit    key.Binding
	Save    key.Binding
	Delete  key.Binding
	Confirm key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	SignUp:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create an account")),
	Login:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "sign in instead")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Tag:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next tag")),
	Starred: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "starred only")),
	Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
	Star:    key.NewBinding(key.WithKeys("*", "f"), key.WithHelp("*", "star")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
	Exit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Delete:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
}
