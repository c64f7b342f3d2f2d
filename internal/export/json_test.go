package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/notium/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		notes     []internal.Note
		wantCount int
	}{
		{
			name:      "several notes",
			notes:     internal.CreateTestNotes(),
			wantCount: 3,
		},
		{
			name:      "nil list",
			notes:     nil,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &JSONExporter{}
			var buf bytes.Buffer

			if err := exporter.Export(tt.notes, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			var decoded []internal.Note
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("JSONExporter.Export() produced invalid JSON: %v", err)
			}
			if len(decoded) != tt.wantCount {
				t.Errorf("decoded %d notes, want %d", len(decoded), tt.wantCount)
			}
			if tt.wantCount == 0 && strings.TrimSpace(buf.String()) != "[]" {
				t.Errorf("empty export = %q, want []", buf.String())
			}
		})
	}
}

func TestJSONExporter_WireNames(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(internal.CreateTestNotes()[:1], &buf); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"created_at"`, `"updated_at"`, `"starred"`, `"tags"`} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("output missing %s", field)
		}
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %q, want 'json'", got)
	}
}
