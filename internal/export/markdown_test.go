package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/notium/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name  string
		notes []internal.Note
		want  []string
		not   []string
	}{
		{
			name:  "several notes",
			notes: internal.CreateTestNotes(),
			want: []string{
				"# Notes",
				"**Notes:** 3",
				"## Groceries",
				"## ★ Sprint planning",
				"**Tags:** `work` `meetings`",
				"milk, eggs, bread",
			},
		},
		{
			name:  "empty list",
			notes: nil,
			want:  []string{"# Notes", "**Notes:** 0"},
			not:   []string{"## "},
		},
		{
			name: "note without tags",
			notes: []internal.Note{
				*internal.CreateTestNote(9, "Bare", "text"),
			},
			want: []string{"## Bare", "**Created:**"},
			not:  []string{"**Tags:**"},
		},
		{
			name: "emphasis is escaped outside code blocks",
			notes: []internal.Note{
				*internal.CreateTestNote(10, "Fmt", "**bold**\n```\n**kept**\n```"),
			},
			want: []string{"\\*\\*bold\\*\\*", "**kept**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &MarkdownExporter{}
			var buf bytes.Buffer

			if err := exporter.Export(tt.notes, &buf); err != nil {
				t.Fatalf("MarkdownExporter.Export() error = %v", err)
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("MarkdownExporter.Export() output missing %q\n%s", want, output)
				}
			}
			for _, not := range tt.not {
				if strings.Contains(output, not) {
					t.Errorf("MarkdownExporter.Export() output unexpectedly contains %q", not)
				}
			}
		})
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a **b**", "a \\*\\*b\\*\\*"},
		{"__u__", "\\_\\_u\\_\\_"},
		{"```\n**x**\n```", "```\n**x**\n```"},
	}
	for _, tt := range tests {
		if got := escapeMarkdown(tt.in); got != tt.want {
			t.Errorf("escapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	if got := (&MarkdownExporter{}).Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %q, want 'md'", got)
	}
}
