package export

import (
	"io"

	"github.com/iksnae/notium/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports notes in YAML format
type YAMLExporter struct{}

// Export writes notes as a YAML sequence
func (e *YAMLExporter) Export(notes []internal.Note, w io.Writer) error {
	if notes == nil {
		notes = []internal.Note{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(notes)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
