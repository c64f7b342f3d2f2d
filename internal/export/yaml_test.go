package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/notium/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	exporter := &YAMLExporter{}
	var buf bytes.Buffer

	notes := internal.CreateTestNotes()
	if err := exporter.Export(notes, &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded []internal.Note
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("YAMLExporter.Export() produced invalid YAML: %v", err)
	}
	if len(decoded) != len(notes) {
		t.Fatalf("decoded %d notes, want %d", len(decoded), len(notes))
	}
	if decoded[1].Title != "Sprint planning" || !decoded[1].Starred {
		t.Errorf("decoded[1] = %+v", decoded[1])
	}
	if !strings.Contains(buf.String(), "created_at:") {
		t.Error("YAML output should use created_at keys")
	}
}

func TestYAMLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	if got := (&YAMLExporter{}).Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %q, want 'yaml'", got)
	}
}
