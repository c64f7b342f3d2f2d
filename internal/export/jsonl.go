package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/notium/internal"
)

// JSONLExporter exports notes in JSONL format (one note per line)
type JSONLExporter struct{}

type jsonlNote struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Tags      []internal.Tag `json:"tags"`
	Starred   bool           `json:"starred"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

// Export writes one note per line in the same shape as the JSON export
func (e *JSONLExporter) Export(notes []internal.Note, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, n := range notes {
		if n.Tags == nil {
			n.Tags = []internal.Tag{}
		}
		line := jsonlNote{
			ID:      n.ID,
			Title:   n.Title,
			Content: n.Content,
			Tags:    n.Tags,
			Starred: n.Starred,
		}
		if !n.CreatedAt.IsZero() {
			line.CreatedAt = n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		if !n.UpdatedAt.IsZero() {
			line.UpdatedAt = n.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode note %d: %w", n.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
