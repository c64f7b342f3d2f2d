package internal

import (
	"context"
	"sync"
)

// SessionState is the authentication state of the client
type SessionState int

const (
	// StateLoading means the stored credential has not been checked yet
	StateLoading SessionState = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ChangeReason says which operation caused a session transition
type ChangeReason string

const (
	ReasonInit     ChangeReason = "init"
	ReasonLogin    ChangeReason = "login"
	ReasonRegister ChangeReason = "register"
	ReasonLogout   ChangeReason = "logout"
	ReasonExpired  ChangeReason = "expired"
)

// SessionChange is delivered to session subscribers after every transition
type SessionChange struct {
	From   SessionState
	To     SessionState
	Reason ChangeReason
}

// SessionReader is the read-only view of the session
type SessionReader interface {
	State() SessionState
	Authenticated() bool
	Loading() bool
}

// Authenticator is the session as seen by the login, sign-up and logout views
type Authenticator interface {
	SessionReader
	Login(ctx context.Context, creds LoginCredentials) error
	Register(ctx context.Context, payload RegisterPayload) error
	Logout() error
}

// Session is the single owner of the authentication state
type Session struct {
	auth   AuthAccessor
	tokens TokenStore
	nav    *Navigator

	mu        sync.Mutex
	state     SessionState
	listeners map[int]func(SessionChange)
	nextID    int
}

// NewSession creates a session in the loading state. nav may be nil.
func NewSession(auth AuthAccessor, tokens TokenStore, nav *Navigator) *Session {
	return &Session{
		auth:      auth,
		tokens:    tokens,
		nav:       nav,
		state:     StateLoading,
		listeners: make(map[int]func(SessionChange)),
	}
}

// State returns the current state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticated reports whether a credential is held
func (s *Session) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// Loading reports whether Init has not run yet
func (s *Session) Loading() bool {
	return s.State() == StateLoading
}

// Init resolves the loading state from the token store. Only the first call has an effect.
func (s *Session) Init() {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return
	}
	token, err := s.tokens.Token()
	if err != nil {
		LogWarn("Could not read stored credential: %v", err)
		token = ""
	}
	to := StateUnauthenticated
	if token != "" {
		to = StateAuthenticated
	}
	change := s.transitionLocked(to, ReasonInit)
	s.mu.Unlock()

	LogDebug("session initialized: %s", to)
	s.notify(change)
}

// Login exchanges credentials for a token. On failure the state and stored token are unchanged.
func (s *Session) Login(ctx context.Context, creds LoginCredentials) error {
	s.Init()
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	return s.authenticate(resp.AccessToken, ReasonLogin)
}

// Register creates an account and authenticates with the returned token
func (s *Session) Register(ctx context.Context, payload RegisterPayload) error {
	s.Init()
	resp, err := s.auth.Register(ctx, payload)
	if err != nil {
		return err
	}
	return s.authenticate(resp.AccessToken, ReasonRegister)
}

func (s *Session) authenticate(token string, reason ChangeReason) error {
	s.mu.Lock()
	if err := s.tokens.SetToken(token); err != nil {
		s.mu.Unlock()
		return err
	}
	change := s.transitionLocked(StateAuthenticated, reason)
	s.mu.Unlock()

	LogDebug("signed in (%s)", reason)
	s.notify(change)
	return nil
}

// Logout drops the stored credential. It never touches the network.
// The session ends even when the store fails; the *StorageError is returned
// so the caller can report that the credential is still on disk.
func (s *Session) Logout() error {
	s.Init()
	return s.signOut(ReasonLogout)
}

// Expire ends the session after the API rejected the credential and returns to the login view
func (s *Session) Expire(ev UnauthorizedEvent) {
	s.Init()
	LogDebug("session expired by %s %s", ev.Method, ev.Path)
	if err := s.signOut(ReasonExpired); err != nil {
		LogWarn("Could not clear stored credential: %v", err)
	}
	if s.nav != nil {
		s.nav.Navigate(LoginPath)
	}
}

func (s *Session) signOut(reason ChangeReason) error {
	s.mu.Lock()
	err := s.tokens.ClearToken()
	change := s.transitionLocked(StateUnauthenticated, reason)
	s.mu.Unlock()

	s.notify(change)
	return err
}

// Attach subscribes the session to the client's unauthorized events
func (s *Session) Attach(client *APIClient) func() {
	return client.OnUnauthorized(s.Expire)
}

// Subscribe registers fn for transitions and returns its unsubscribe func
func (s *Session) Subscribe(fn func(SessionChange)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// transitionLocked moves to state and snapshots the listeners; the caller holds s.mu
func (s *Session) transitionLocked(to SessionState, reason ChangeReason) *pendingChange {
	change := SessionChange{From: s.state, To: to, Reason: reason}
	s.state = to
	listeners := make([]func(SessionChange), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return &pendingChange{change: change, listeners: listeners}
}

type pendingChange struct {
	change    SessionChange
	listeners []func(SessionChange)
}

func (s *Session) notify(p *pendingChange) {
	for _, fn := range p.listeners {
		fn(p.change)
	}
}
