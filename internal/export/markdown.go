package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/notium/internal"
)

// MarkdownExporter exports notes as one Markdown document
type MarkdownExporter struct{}

// Export writes a heading per note followed by its tags, dates and content
func (e *MarkdownExporter) Export(notes []internal.Note, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Notes\n\n")
	_, _ = fmt.Fprintf(w, "**Notes:** %d\n\n", len(notes))

	for i, n := range notes {
		_, _ = fmt.Fprintf(w, "---\n\n")

		star := ""
		if n.Starred {
			star = "★ "
		}
		_, _ = fmt.Fprintf(w, "## %s%s\n\n", star, escapeMarkdown(n.Title))

		if names := n.TagNames(); len(names) > 0 {
			tags := make([]string, 0, len(names))
			for _, name := range names {
				tags = append(tags, "`"+name+"`")
			}
			_, _ = fmt.Fprintf(w, "**Tags:** %s  \n", strings.Join(tags, " "))
		}
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", internal.FormatNoteDate(n.CreatedAt))
		_, _ = fmt.Fprintf(w, "**Updated:** %s\n\n", internal.FormatNoteDate(n.UpdatedAt))

		if _, err := fmt.Fprintf(w, "%s\n", escapeMarkdown(n.Content)); err != nil {
			return fmt.Errorf("failed to write note %d: %w", n.ID, err)
		}
		if i < len(notes)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
