package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/notium/internal"
)

// JSONExporter exports notes as one pretty-printed JSON array
type JSONExporter struct{}

// Export writes notes as a JSON array; an empty list is written as []
func (e *JSONExporter) Export(notes []internal.Note, w io.Writer) error {
	if notes == nil {
		notes = []internal.Note{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(notes)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
