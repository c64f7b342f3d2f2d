package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const fakeSigningKey = "notium-fake-api"

// RecordedRequest is one request seen by the fake API
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
}

type fakeUser struct {
	username string
	email    string
	password string
}

type fakeTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type fakeNote struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []fakeTag `json:"tags"`
	Starred   bool      `json:"starred"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	owner     string
}

type fakeFailure struct {
	status int
	detail string
}

// FakeAPI is an in-process Notium API used by tests. It serves the same
// routes and payloads as the real service under /api.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]*fakeUser
	notes    map[int64]*fakeNote
	tags     map[string]fakeTag
	nextNote int64
	nextTag  int64
	clock    time.Time
	requests []RecordedRequest
	failures map[string]fakeFailure // "METHOD /path" -> forced response
}

// NewFakeAPI starts a fake API server, closed when the test ends
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		users:    make(map[string]*fakeUser),
		notes:    make(map[int64]*fakeNote),
		tags:     make(map[string]fakeTag),
		clock:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		failures: make(map[string]fakeFailure),
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API root clients should be configured with
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + "/api"
}

// AddUser registers a user directly
func (f *FakeAPI) AddUser(username, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = &fakeUser{username: username, email: email, password: password}
}

// IssueToken returns a valid token for username without going through login
func (f *FakeAPI) IssueToken(t *testing.T, username string) string {
	t.Helper()
	token, err := signToken(username, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

// Seed creates notes owned by username and returns their ids in order
func (f *FakeAPI) Seed(username string, seeds []SeedNote) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(seeds))
	for _, s := range seeds {
		n := f.createNoteLocked(username, s.Title, s.Content, s.Tags)
		n.Starred = s.Starred
		ids = append(ids, n.ID)
	}
	return ids
}

// SeedWithID creates a note with a fixed id, for scenario tests
func (f *FakeAPI) SeedWithID(username string, id int64, s SeedNote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextNote < id-1 {
		f.nextNote = id - 1
	}
	n := f.createNoteLocked(username, s.Title, s.Content, s.Tags)
	n.Starred = s.Starred
}

// Fail makes every following request to method+path answer with status and detail
func (f *FakeAPI) Fail(method, path string, status int, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = fakeFailure{status: status, detail: detail}
}

// ClearFailures removes forced responses
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]fakeFailure)
}

// Requests returns a copy of every request received so far
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// CountRequests counts requests matching method and path
func (f *FakeAPI) CountRequests(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// HasNote reports whether a note with id exists
func (f *FakeAPI) HasNote(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.notes[id]
	return ok
}

func (f *FakeAPI) routes() *gin.Engine {
	r := gin.New()
	r.Use(f.record, f.forcedFailures)

	api := r.Group("/api")
	api.POST("/auth/login", f.login)
	api.POST("/auth/register", f.register)

	notes := api.Group("/notes", f.requireAuth)
	notes.GET("", f.listNotes)
	notes.POST("", f.createNote)
	notes.GET("/recent", f.recentNotes)
	notes.GET("/:id", f.getNote)
	notes.PUT("/:id", f.updateNote)
	notes.DELETE("/:id", f.deleteNote)
	notes.POST("/:id/star", f.toggleStar)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	return r
}

func (f *FakeAPI) record(c *gin.Context) {
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        c.Request.Method,
		Path:          strings.TrimPrefix(c.Request.URL.Path, "/api"),
		RawQuery:      c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	f.mu.Unlock()
	c.Next()
}

func (f *FakeAPI) forcedFailures(c *gin.Context) {
	key := c.Request.Method + " " + strings.TrimPrefix(c.Request.URL.Path, "/api")
	f.mu.Lock()
	failure, ok := f.failures[key]
	f.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(failure.status, gin.H{"detail": failure.detail})
		return
	}
	c.Next()
}

func signToken(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "notium-fake",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(fakeSigningKey))
}

func (f *FakeAPI) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
		return
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(fakeSigningKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
		return
	}
	c.Set("username", claims.Subject)
	c.Next()
}

func (f *FakeAPI) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}

	f.mu.Lock()
	user, ok := f.users[body.Username]
	f.mu.Unlock()
	if !ok || user.password != body.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}
	f.respondToken(c, body.Username)
}

func (f *FakeAPI) register(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "field required"}}})
		return
	}

	f.mu.Lock()
	if _, exists := f.users[body.Username]; exists {
		f.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already exists"})
		return
	}
	f.users[body.Username] = &fakeUser{username: body.Username, email: body.Email, password: body.Password}
	f.mu.Unlock()

	f.respondToken(c, body.Username)
}

func (f *FakeAPI) respondToken(c *gin.Context, username string) {
	token, err := signToken(username, time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (f *FakeAPI) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *FakeAPI) tagsLocked(names []string) []fakeTag {
	tags := make([]fakeTag, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tag, ok := f.tags[name]
		if !ok {
			f.nextTag++
			tag = fakeTag{ID: f.nextTag, Name: name}
			f.tags[name] = tag
		}
		tags = append(tags, tag)
	}
	return tags
}

func (f *FakeAPI) createNoteLocked(owner, title, content string, tags []string) *fakeNote {
	f.nextNote++
	now := f.tick()
	n := &fakeNote{
		ID:        f.nextNote,
		Title:     title,
		Content:   content,
		Tags:      f.tagsLocked(tags),
		CreatedAt: now,
		UpdatedAt: now,
		owner:     owner,
	}
	f.notes[n.ID] = n
	return n
}

// ownedNote looks up a note for the authenticated user; the caller holds f.mu
func (f *FakeAPI) ownedNoteLocked(c *gin.Context) (*fakeNote, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "value is not a valid integer"}}})
		return nil, false
	}
	n, ok := f.notes[id]
	if !ok || n.owner != c.GetString("username") {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Note not found"})
		return nil, false
	}
	return n, true
}

func (f *FakeAPI) userNotesLocked(username string) []fakeNote {
	out := make([]fakeNote, 0)
	for _, n := range f.notes {
		if n.owner == username {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (f *FakeAPI) listNotes(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	tag := c.Query("tag")
	starred, hasStarred := c.GetQuery("starred")

	f.mu.Lock()
	all := f.userNotesLocked(c.GetString("username"))
	f.mu.Unlock()

	out := make([]fakeNote, 0, len(all))
	for _, n := range all {
		if search != "" && !strings.Contains(strings.ToLower(n.Title), search) &&
			!strings.Contains(strings.ToLower(n.Content), search) {
			continue
		}
		if tag != "" && !hasTag(n, tag) {
			continue
		}
		if hasStarred && strconv.FormatBool(n.Starred) != starred {
			continue
		}
		out = append(out, n)
	}
	c.JSON(http.StatusOK, out)
}

func hasTag(n fakeNote, name string) bool {
	for _, t := range n.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (f *FakeAPI) recentNotes(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "limit must be an integer"}}})
			return
		}
		limit = v
	}

	f.mu.Lock()
	all := f.userNotesLocked(c.GetString("username"))
	f.mu.Unlock()

	if limit >= 0 && limit < len(all) {
		all = all[:limit]
	}
	c.JSON(http.StatusOK, all)
}

func (f *FakeAPI) getNote(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.ownedNoteLocked(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, n)
}

func (f *FakeAPI) createNote(c *gin.Context) {
	var body struct {
		Title   *string  `json:"title"`
		Content *string  `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Title == nil || body.Content == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "field required"}}})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.createNoteLocked(c.GetString("username"), *body.Title, *body.Content, body.Tags)
	c.JSON(http.StatusOK, n)
}

func (f *FakeAPI) updateNote(c *gin.Context) {
	var body struct {
		Title   *string   `json:"title"`
		Content *string   `json:"content"`
		Tags    *[]string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.ownedNoteLocked(c)
	if !ok {
		return
	}
	if body.Title != nil {
		n.Title = *body.Title
	}
	if body.Content != nil {
		n.Content = *body.Content
	}
	if body.Tags != nil {
		n.Tags = f.tagsLocked(*body.Tags)
	}
	n.UpdatedAt = f.tick()
	c.JSON(http.StatusOK, n)
}

func (f *FakeAPI) deleteNote(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.ownedNoteLocked(c)
	if !ok {
		return
	}
	delete(f.notes, n.ID)
	c.Status(http.StatusNoContent)
}

func (f *FakeAPI) toggleStar(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.ownedNoteLocked(c)
	if !ok {
		return
	}
	n.Starred = !n.Starred
	n.UpdatedAt = f.tick()
	c.JSON(http.StatusOK, n)
}

// String summarizes the fake's state for failure messages
func (f *FakeAPI) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fmt.Sprintf("FakeAPI{users: %d, notes: %d, requests: %d}", len(f.users), len(f.notes), len(f.requests))
}
