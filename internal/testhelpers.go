package internal

import (
	"time"
)

// CreateTestNote creates a note as the API would return it
func CreateTestNote(id int64, title, content string, tags ...string) *Note {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour)
	note := &Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      make([]Tag, 0, len(tags)),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for i, name := range tags {
		note.Tags = append(note.Tags, Tag{ID: int64(i + 1), Name: name})
	}
	return note
}

// CreateTestNotes creates a small set of notes with mixed tags and stars
func CreateTestNotes() []Note {
	groceries := CreateTestNote(1, "Groceries", "milk, eggs, bread", "personal")
	planning := CreateTestNote(2, "Sprint planning", "estimate the backlog", "work", "meetings")
	planning.Starred = true
	reading := CreateTestNote(3, "Reading list", "The Go Programming Language", "personal", "books")
	return []Note{*groceries, *planning, *reading}
}
