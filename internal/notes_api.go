package internal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultRecentLimit is used when Recent is called without a positive limit
const DefaultRecentLimit = 10

// NotesAccessor is the set of note operations offered by the API
type NotesAccessor interface {
	List(ctx context.Context, params ListParams) ([]Note, error)
	Get(ctx context.Context, id int64) (*Note, error)
	Create(ctx context.Context, in NoteIn) (*Note, error)
	Update(ctx context.Context, id int64, update NoteUpdate) (*Note, error)
	Delete(ctx context.Context, id int64) error
	ToggleStar(ctx context.Context, id int64) (*Note, error)
	Recent(ctx context.Context, limit int) ([]Note, error)
}

// NotesAPI is the NotesAccessor backed by the HTTP API
type NotesAPI struct {
	client *APIClient
}

// NewNotesAPI binds the note endpoints to client
func NewNotesAPI(client *APIClient) *NotesAPI {
	return &NotesAPI{client: client}
}

func notePath(id int64) string {
	return "/notes/" + strconv.FormatInt(id, 10)
}

// List returns the caller's notes matching params
func (a *NotesAPI) List(ctx context.Context, params ListParams) ([]Note, error) {
	notes := []Note{}
	if err := a.client.Do(ctx, http.MethodGet, "/notes", params.Values(), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Get fetches one note
func (a *NotesAPI) Get(ctx context.Context, id int64) (*Note, error) {
	var note Note
	if err := a.client.Do(ctx, http.MethodGet, notePath(id), nil, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Create stores a new note and returns it with its server-assigned id
func (a *NotesAPI) Create(ctx context.Context, in NoteIn) (*Note, error) {
	if in.Tags == nil {
		in.Tags = []string{}
	}
	var note Note
	if err := a.client.Do(ctx, http.MethodPost, "/notes", nil, in, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Update applies a partial update
func (a *NotesAPI) Update(ctx context.Context, id int64, update NoteUpdate) (*Note, error) {
	var note Note
	if err := a.client.Do(ctx, http.MethodPut, notePath(id), nil, update, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Delete removes a note
func (a *NotesAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Do(ctx, http.MethodDelete, notePath(id), nil, nil, nil)
}

// ToggleStar flips the starred flag and returns the updated note
func (a *NotesAPI) ToggleStar(ctx context.Context, id int64) (*Note, error) {
	var note Note
	if err := a.client.Do(ctx, http.MethodPost, notePath(id)+"/star", nil, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Recent returns the most recently updated notes
func (a *NotesAPI) Recent(ctx context.Context, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	notes := []Note{}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := a.client.Do(ctx, http.MethodGet, "/notes/recent", query, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}
