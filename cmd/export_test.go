package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/internal/export"
	"github.com/iksnae/notium/testutil"
)

func TestExportCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "export with invalid format",
			args:    []string{"export", "--format", "invalid"},
			wantErr: true,
		},
		{
			name:    "export with unexpected argument",
			args:    []string{"export", "notes.json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCLIFixture(t)
			f.signIn(t)

			_, err := f.run(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("exportCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			assert.Empty(t, f.api.Requests())
		})
	}
}

func TestExportCommand_ToFile(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)
	out := filepath.Join(f.dir, "exports", "notes")

	_, err := f.run(t, "export", "--format", "json", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out + ".json")
	require.NoError(t, err)

	var notes []internal.Note
	testutil.JSONUnmarshal(t, data, &notes)
	assert.Len(t, notes, 3)
}

func TestExportCommand_StdoutWithFilter(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	out, err := f.run(t, "export", "--tag", "personal")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var n internal.Note
		testutil.JSONUnmarshal(t, []byte(line), &n)
		assert.Contains(t, n.TagNames(), "personal")
	}
}

func TestExportCommand_NotSignedIn(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "export", "--format", "md")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestExportPath(t *testing.T) {
	exporter, err := export.NewExporter("md")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "notes", want: "notes.md"},
		{in: "notes.txt", want: "notes.txt"},
		{in: filepath.Join("out", "notes"), want: filepath.Join("out", "notes.md")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, exportPath(exporter, tt.in))
		})
	}
}
