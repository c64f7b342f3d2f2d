package internal

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Tag is a note label. Tags are shared across notes and owned by the server.
type Tag struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Note is a server-owned note. The client only ever holds copies returned by the API.
type Note struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []Tag     `json:"tags" yaml:"tags"`
	Starred   bool      `json:"starred" yaml:"starred"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// TagNames returns the note's tag names in server order
func (n Note) TagNames() []string {
	names := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		names = append(names, t.Name)
	}
	return names
}

// NoteIn is the create payload
type NoteIn struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NoteUpdate is the partial update payload; nil fields are left untouched by the server
type NoteUpdate struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// FullUpdate builds an update that replaces every field, as the editor form does
func FullUpdate(in NoteIn) NoteUpdate {
	title, content, tags := in.Title, in.Content, in.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteUpdate{Title: &title, Content: &content, Tags: &tags}
}

// ListParams are the optional list filters; zero values are not sent
type ListParams struct {
	Search  string
	Tag     string
	Starred *bool
}

// Values encodes the set parameters as a query string
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Tag != "" {
		v.Set("tag", p.Tag)
	}
	if p.Starred != nil {
		v.Set("starred", strconv.FormatBool(*p.Starred))
	}
	return v
}

// LoginCredentials is the login payload
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterPayload is the registration payload
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and register
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Draft is the editable, form-local copy of a note. Tags are comma-joined.
type Draft struct {
	Title   string
	Content string
	Tags    string
}

// DraftFromNote prefills a draft from an existing note
func DraftFromNote(n *Note) Draft {
	if n == nil {
		return Draft{}
	}
	return Draft{
		Title:   n.Title,
		Content: n.Content,
		Tags:    strings.Join(n.TagNames(), ", "),
	}
}

// NoteIn converts the draft into a create payload
func (d Draft) NoteIn() NoteIn {
	return NoteIn{
		Title:   d.Title,
		Content: d.Content,
		Tags:    ParseTags(d.Tags),
	}
}

// Draft validation errors
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
)

// Validate checks the fields the editor form marks as required
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(d.Content) == "" {
		return ErrContentRequired
	}
	return nil
}

// ParseTags splits a comma-separated tag string, trimming blanks and dropping empties
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Filter is the notes view filter state
type Filter struct {
	Search      string
	Tag         string
	StarredOnly *bool
}

// Active reports whether any filter is set
func (f Filter) Active() bool {
	return f.Search != "" || f.Tag != "" || f.StarredOnly != nil
}

// Params converts the filter to list parameters
func (f Filter) Params() ListParams {
	return ListParams{Search: f.Search, Tag: f.Tag, Starred: f.StarredOnly}
}

// ToggleStarred flips between "starred only" and "no starred filter"
func (f Filter) ToggleStarred() Filter {
	if f.StarredOnly != nil && *f.StarredOnly {
		f.StarredOnly = nil
		return f
	}
	on := true
	f.StarredOnly = &on
	return f
}

// UniqueTagNames returns the sorted set of tag names used by notes
func UniqueTagNames(notes []Note) []string {
	seen := make(map[string]struct{})
	for _, n := range notes {
		for _, t := range n.Tags {
			seen[t.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatNoteDate renders a timestamp the way note cards show it, e.g. "Jan 2, 2006"
func FormatNoteDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("Jan 2, 2006")
}

// Preview shortens content to at most max runes on a single line
func Preview(content string, max int) string {
	line := strings.Join(strings.Fields(content), " ")
	runes := []rune(line)
	if len(runes) <= max {
		return line
	}
	if max <= 0 {
		return ""
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
