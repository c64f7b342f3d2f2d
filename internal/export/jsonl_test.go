package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/notium/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	exporter := &JSONLExporter{}
	var buf bytes.Buffer

	notes := internal.CreateTestNotes()
	if err := exporter.Export(notes, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var obj map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		if obj["title"] != notes[lines].Title {
			t.Errorf("line %d title = %v, want %q", lines+1, obj["title"], notes[lines].Title)
		}
		if _, ok := obj["tags"].([]interface{}); !ok {
			t.Errorf("line %d tags = %T, want a list", lines+1, obj["tags"])
		}
		lines++
	}
	if lines != len(notes) {
		t.Errorf("JSONLExporter.Export() wrote %d lines, want %d", lines, len(notes))
	}
}

func TestJSONLExporter_LinesDecodeAsNotes(t *testing.T) {
	var buf bytes.Buffer
	notes := internal.CreateTestNotes()
	if err := (&JSONLExporter{}).Export(notes, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	for i := 0; scanner.Scan(); i++ {
		var got internal.Note
		if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
			t.Fatalf("line %d does not decode as a note: %v", i+1, err)
		}
		if len(got.Tags) != len(notes[i].Tags) {
			t.Fatalf("line %d has %d tags, want %d", i+1, len(got.Tags), len(notes[i].Tags))
		}
		for j, tag := range got.Tags {
			if tag != notes[i].Tags[j] {
				t.Errorf("line %d tag %d = %+v, want %+v", i+1, j, tag, notes[i].Tags[j])
			}
		}
		if !got.UpdatedAt.Equal(notes[i].UpdatedAt) {
			t.Errorf("line %d updated_at = %v, want %v", i+1, got.UpdatedAt, notes[i].UpdatedAt)
		}
	}
}

func TestJSONLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(nil, &buf); err != nil {
		t.Fatalf("Export(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Export(nil) wrote %q", buf.String())
	}
}

func TestJSONLExporter_ZeroDatesOmitted(t *testing.T) {
	var buf bytes.Buffer
	note := internal.Note{ID: 1, Title: "t"}
	if err := (&JSONLExporter{}).Export([]internal.Note{note}, &buf); err != nil {
		t.Fatal(err)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatal(err)
	}
	if _, ok := obj["created_at"]; ok {
		t.Error("zero created_at should be omitted")
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	if got := (&JSONLExporter{}).Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %q, want 'jsonl'", got)
	}
}
