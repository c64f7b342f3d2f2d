package cmd

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/notium/internal"
)

func TestShowCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	out, err := f.run(t, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint planning")
	assert.Contains(t, out, "estimate the backlog")
	assert.Contains(t, out, "work, meetings")
	assert.Contains(t, out, "★")
}

func TestShowCommand_Errors(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "show", "999")
	assert.ErrorIs(t, err, internal.ErrNoteNotFound)

	_, err = f.run(t, "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid note id "abc"`)
}

func TestNewCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "new", "--title", "Ideas", "--content", "write more tests", "--tags", "work, ideas")
	require.NoError(t, err)
	require.True(t, f.api.HasNote(4))

	out, err := f.run(t, "show", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Ideas")
	assert.Contains(t, out, "write more tests")
	assert.Contains(t, out, "ideas")
}

func TestNewCommand_RequiresTitle(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "new", "--content", "no title")
	require.Error(t, err)
	assert.Zero(t, f.api.CountRequests(http.MethodPost, "/notes"))
}

func TestNewCommand_RequiresFlagsWithoutTerminal(t *testing.T) {
	t.Setenv("CI", "true")
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--title and --content are required")
}

func TestEditCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "edit", "1", "--title", "Shopping")
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.CountRequests(http.MethodPut, "/notes/1"))

	out, err := f.run(t, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Shopping")
	assert.Contains(t, out, "milk, eggs, bread")
	assert.Contains(t, out, "personal")
}

func TestEditCommand_MissingNote(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "edit", "999", "--title", "Nope")
	require.Error(t, err)
	assert.True(t, internal.IsNotFound(err))
	assert.Zero(t, f.api.CountRequests(http.MethodPut, "/notes/999"))
}

func TestDeleteCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "delete", "1", "--yes")
	require.NoError(t, err)
	assert.False(t, f.api.HasNote(1))

	out, err := f.run(t, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Groceries")
}

func TestDeleteCommand_RequiresConfirmation(t *testing.T) {
	t.Setenv("CI", "true")
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "rm", "1")
	require.Error(t, err)
	assert.True(t, f.api.HasNote(1))
	assert.Zero(t, f.api.CountRequests(http.MethodDelete, "/notes/1"))
}

func TestStarCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "star", "1")
	require.NoError(t, err)

	out, err := f.run(t, "list", "--starred")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Sprint planning")

	_, err = f.run(t, "star", "2")
	require.NoError(t, err)

	out, err = f.run(t, "list", "--starred")
	require.NoError(t, err)
	assert.NotContains(t, out, "Sprint planning")
}

func TestDraftFromFlags(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	original := internal.Draft{Title: "Groceries", Content: "milk", Tags: "personal"}

	draft, changed := draftFromFlags(newCmd, original)
	assert.False(t, changed)
	assert.Equal(t, original, draft)

	require.NoError(t, newCmd.Flags().Set("tags", "home"))
	draft, changed = draftFromFlags(newCmd, original)
	assert.True(t, changed)
	assert.Equal(t, "Groceries", draft.Title)
	assert.Equal(t, "home", draft.Tags)
}

func TestDisplayNote(t *testing.T) {
	note := internal.CreateTestNote(7, "Untagged", "just text")

	var buf bytes.Buffer
	displayNote(&buf, note)
	out := buf.String()
	assert.Contains(t, out, "Untagged")
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "just text")
	assert.NotContains(t, out, "Tags:")
	assert.NotContains(t, out, "★")
}

func TestEditCommand_Unchanged(t *testing.T) {
	f := newCLIFixture(t)
	f.signIn(t)

	_, err := f.run(t, "edit", "1", "--title", "Groceries")
	require.NoError(t, err)
	assert.Zero(t, f.api.CountRequests(http.MethodPut, "/notes/1"))
}
