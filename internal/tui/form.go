package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = 40
	// static cursor: focus changes never schedule blink ticks
	ti.Cursor.SetMode(cursor.CursorStatic)
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

// fieldSet is a vertical list of labelled single-line inputs with one focused field
type fieldSet struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newFieldSet(labels []string, inputs []textinput.Model) fieldSet {
	f := fieldSet{labels: labels, inputs: inputs}
	f.focusAt(0)
	return f
}

// focusAt focuses input i; an out of range i blurs every input
func (f *fieldSet) focusAt(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *fieldSet) next() {
	f.focusAt((f.focus + 1) % len(f.inputs))
}

func (f *fieldSet) prev() {
	f.focusAt((f.focus + len(f.inputs) - 1) % len(f.inputs))
}

func (f *fieldSet) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *fieldSet) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *fieldSet) value(i int) string {
	return f.inputs[i].Value()
}

func (f *fieldSet) set(i int, v string) {
	f.inputs[i].SetValue(v)
	f.inputs[i].CursorEnd()
}

func (f *fieldSet) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = titleStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s\n  %s\n\n", marker, labelStyle.Render(f.labels[i]), in.View())
	}
	return b.String()
}
