package internal

import (
	"context"
	"strconv"
)

// Query key roots
const (
	notesKeyRoot = "notes"
	noteKeyRoot  = "note"
)

// NotesListKey is the cache key of a filtered list
func NotesListKey(f Filter) QueryKey {
	starred := ""
	if f.StarredOnly != nil {
		starred = strconv.FormatBool(*f.StarredOnly)
	}
	return QueryKey{notesKeyRoot, f.Search, f.Tag, starred}
}

// NoteKey is the cache key of a single note
func NoteKey(id int64) QueryKey {
	return QueryKey{noteKeyRoot, strconv.FormatInt(id, 10)}
}

// RecentKey is the cache key of the recent notes list
func RecentKey(limit int) QueryKey {
	return QueryKey{notesKeyRoot, "recent", strconv.Itoa(limit)}
}

// AllNotesKey is the prefix of every list query
var AllNotesKey = QueryKey{notesKeyRoot}

// NoteQueries binds note reads and writes to the query cache
type NoteQueries struct {
	notes NotesAccessor
	cache *QueryClient
}

// NewNoteQueries creates the note query layer
func NewNoteQueries(notes NotesAccessor, cache *QueryClient) *NoteQueries {
	return &NoteQueries{notes: notes, cache: cache}
}

// Cache returns the underlying query client
func (q *NoteQueries) Cache() *QueryClient {
	return q.cache
}

// List returns the notes matching f
func (q *NoteQueries) List(ctx context.Context, f Filter) ([]Note, error) {
	return Fetch(ctx, q.cache, NotesListKey(f), func(ctx context.Context) ([]Note, error) {
		return q.notes.List(ctx, f.Params())
	})
}

// AllTags returns the sorted tag names across every note, ignoring the current filter
func (q *NoteQueries) AllTags(ctx context.Context) ([]string, error) {
	all, err := q.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	return UniqueTagNames(all), nil
}

// Get returns one note
func (q *NoteQueries) Get(ctx context.Context, id int64) (*Note, error) {
	return Fetch(ctx, q.cache, NoteKey(id), func(ctx context.Context) (*Note, error) {
		return q.notes.Get(ctx, id)
	})
}

// Recent returns the latest notes; limit <= 0 uses the default
func (q *NoteQueries) Recent(ctx context.Context, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return Fetch(ctx, q.cache, RecentKey(limit), func(ctx context.Context) ([]Note, error) {
		return q.notes.Recent(ctx, limit)
	})
}

// Create stores a note and invalidates every list
func (q *NoteQueries) Create(ctx context.Context, in NoteIn) (*Note, error) {
	return Mutate(ctx, q.cache, func(ctx context.Context) (*Note, error) {
		return q.notes.Create(ctx, in)
	}, AllNotesKey)
}

// Update replaces note fields and invalidates the lists and the note
func (q *NoteQueries) Update(ctx context.Context, id int64, update NoteUpdate) (*Note, error) {
	return Mutate(ctx, q.cache, func(ctx context.Context) (*Note, error) {
		return q.notes.Update(ctx, id, update)
	}, AllNotesKey, NoteKey(id))
}

// Delete removes a note and invalidates the lists and the note
func (q *NoteQueries) Delete(ctx context.Context, id int64) error {
	_, err := Mutate(ctx, q.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, q.notes.Delete(ctx, id)
	}, AllNotesKey, NoteKey(id))
	return err
}

// ToggleStar flips the starred flag and invalidates the lists and the note
func (q *NoteQueries) ToggleStar(ctx context.Context, id int64) (*Note, error) {
	return Mutate(ctx, q.cache, func(ctx context.Context) (*Note, error) {
		return q.notes.ToggleStar(ctx, id)
	}, AllNotesKey, NoteKey(id))
}

// ResetOnLogout clears cache whenever the session becomes unauthenticated
func ResetOnLogout(session *Session, cache *QueryClient) func() {
	return session.Subscribe(func(c SessionChange) {
		if c.To == StateUnauthenticated && c.From != StateLoading {
			LogDebug("clearing %d cached queries (%s)", cache.Len(), c.Reason)
			cache.Clear()
		}
	})
}
