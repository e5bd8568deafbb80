package client

import "sync"

// EventKind tells subscribers how the session changed
type EventKind int

const (
	LoggedIn EventKind = iota + 1
	LoggedOut
)

func (k EventKind) String() string {
	switch k {
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	}
	return "unknown"
}

// SessionEvent is published on every login and logout
type SessionEvent struct {
	Kind EventKind
	User *User
}

// subscriberBuffer is how many events a slow subscriber may fall behind
// before further events are dropped for it
const subscriberBuffer = 8

// Session holds the credentials of the signed in user. It is safe for
// concurrent use and may be shared by several clients.
type Session struct {
	mu          sync.RWMutex
	token       string
	user        *User
	subscribers []chan SessionEvent
}

// NewSession returns an anonymous session
func NewSession() *Session {
	return &Session{}
}

// Token returns the current token, or "" when anonymous
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed in user, or nil when anonymous
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether the session carries a token
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores new credentials and publishes LoggedIn
func (s *Session) Set(token string, user *User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.publish(SessionEvent{Kind: LoggedIn, User: user})
	s.mu.Unlock()
}

// Clear drops the credentials. LoggedOut is published only if there were any.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	user := s.user
	s.token = ""
	s.user = nil
	s.publish(SessionEvent{Kind: LoggedOut, User: user})
}

// Subscribe returns a channel receiving every later session transition
func (s *Session) Subscribe() <-chan SessionEvent {
	ch := make(chan SessionEvent, subscriberBuffer)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

// publish must be called with mu held
func (s *Session) publish(ev SessionEvent) {
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
