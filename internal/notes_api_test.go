package internal

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/notium/testutil"
)

func newNotesFixture(t *testing.T) (*testutil.FakeAPI, *NotesAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	api.AddUser("ada", "ada@example.com", "pw")
	api.Seed("ada", testutil.DefaultSeedNotes())
	client := newTestClient(t, api, api.IssueToken(t, "ada"), nil)
	return api, NewNotesAPI(client)
}

func TestAuthAPI_Login(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddUser("alice", "alice@example.com", "secret")
	auth := NewAuthAPI(newTestClient(t, api, "", nil))

	resp, err := auth.Login(context.Background(), LoginCredentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)

	_, err = auth.Login(context.Background(), LoginCredentials{Username: "alice", Password: "wrong"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", ErrorMessage(err))
}

func TestAuthAPI_Register(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	auth := NewAuthAPI(newTestClient(t, api, "", nil))

	resp, err := auth.Register(context.Background(), RegisterPayload{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = auth.Register(context.Background(), RegisterPayload{Username: "bob", Email: "bob@example.com", Password: "pw"})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Username already exists", ErrorMessage(err))
}

func TestNotesAPI_List(t *testing.T) {
	api, notes := newNotesFixture(t)
	ctx := context.Background()

	all, err := notes.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, len(testutil.DefaultSeedNotes()))

	starred := true
	onlyStarred, err := notes.List(ctx, ListParams{Starred: &starred})
	require.NoError(t, err)
	for _, n := range onlyStarred {
		assert.True(t, n.Starred, n.Title)
	}

	_, err = notes.List(ctx, ListParams{Search: "plan", Tag: "work"})
	require.NoError(t, err)

	reqs := api.Requests()
	assert.Equal(t, "", reqs[0].RawQuery, "unset params must be omitted")
	assert.Equal(t, "starred=true", reqs[1].RawQuery)
	assert.Equal(t, "search=plan&tag=work", reqs[2].RawQuery)
}

func TestNotesAPI_CRUD(t *testing.T) {
	api, notes := newNotesFixture(t)
	ctx := context.Background()

	created, err := notes.Create(ctx, NoteIn{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Empty(t, created.Tags)

	got, err := notes.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	updated, err := notes.Update(ctx, created.ID, FullUpdate(NoteIn{Title: "T2", Content: "C2", Tags: []string{"x"}}))
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, []string{"x"}, updated.TagNames())

	title := "T3"
	partial, err := notes.Update(ctx, created.ID, NoteUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "T3", partial.Title)
	assert.Equal(t, "C2", partial.Content, "partial update leaves content untouched")

	starred, err := notes.ToggleStar(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, starred.Starred)
	unstarred, err := notes.ToggleStar(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, unstarred.Starred)

	require.NoError(t, notes.Delete(ctx, created.ID))
	assert.False(t, api.HasNote(created.ID))

	_, err = notes.Get(ctx, created.ID)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Note not found", ErrorMessage(err))
}

func TestNotesAPI_Recent(t *testing.T) {
	api, notes := newNotesFixture(t)
	ctx := context.Background()

	recent, err := notes.Recent(ctx, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recent), DefaultRecentLimit)

	two, err := notes.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	reqs := api.Requests()
	assert.Equal(t, "limit=10", reqs[0].RawQuery)
	assert.Equal(t, "limit=2", reqs[1].RawQuery)
}

func TestNotesAPI_UnauthorizedForEveryAccessor(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	nav := NewNavigator("/notes")
	client := newTestClient(t, api, "", nav)
	notes := NewNotesAPI(client)

	events := 0
	client.OnUnauthorized(func(UnauthorizedEvent) { events++ })

	ctx := context.Background()
	calls := map[string]func() error{
		"list":   func() error { _, err := notes.List(ctx, ListParams{}); return err },
		"get":    func() error { _, err := notes.Get(ctx, 1); return err },
		"create": func() error { _, err := notes.Create(ctx, NoteIn{Title: "a", Content: "b"}); return err },
		"update": func() error { _, err := notes.Update(ctx, 1, NoteUpdate{}); return err },
		"delete": func() error { return notes.Delete(ctx, 1) },
		"star":   func() error { _, err := notes.ToggleStar(ctx, 1); return err },
		"recent": func() error { _, err := notes.Recent(ctx, 5); return err },
	}
	for name, call := range calls {
		assert.True(t, IsUnauthorized(call()), name)
	}
	assert.Equal(t, len(calls), events)
	assert.Equal(t, len(calls), api.CountRequests(http.MethodGet, "/notes")+
		api.CountRequests(http.MethodGet, "/notes/1")+
		api.CountRequests(http.MethodPost, "/notes")+
		api.CountRequests(http.MethodPut, "/notes/1")+
		api.CountRequests(http.MethodDelete, "/notes/1")+
		api.CountRequests(http.MethodPost, "/notes/1/star")+
		api.CountRequests(http.MethodGet, "/notes/recent"))
}
