package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuthState is the session gate's view of the identity provider.
type AuthState int

const (
	// AuthStateLoading means no auth-state notification has arrived yet;
	// the gate performs no redirect while loading.
	AuthStateLoading AuthState = iota
	// AuthStateSignedOut means the provider reported no user.
	AuthStateSignedOut
	// AuthStateSignedIn means a user session is present.
	AuthStateSignedIn
)

// PublicCommands lists the commands reachable without a session, the
// allow-list equivalent of the login/register screens.
var PublicCommands = map[string]bool{
	"login":      true,
	"register":   true,
	"about":      true,
	"help":       true,
	"completion": true,
}

// signedOutDebounce delays the signed-out verdict so a transient nil state
// during provider initialization does not bounce the user to login.
const signedOutDebounce = 100 * time.Millisecond

// SessionGate decides command access from the persisted provider session.
// It notifies subscribers on every state change and never retries a
// provider failure; an error only shows up as the absence of a signed-in
// notification.
type SessionGate struct {
	identity    *IdentityClient
	sessionPath string

	mu          sync.Mutex
	state       AuthState
	session     *UserSession
	subscribers map[int]func(AuthState)
	nextSubID   int
}

// NewSessionGate creates a gate backed by the session file at sessionPath.
func NewSessionGate(identity *IdentityClient, sessionPath string) *SessionGate {
	return &SessionGate{
		identity:    identity,
		sessionPath: sessionPath,
		state:       AuthStateLoading,
		subscribers: make(map[int]func(AuthState)),
	}
}

// Subscribe registers a callback for auth-state notifications and returns
// an unsubscribe function for teardown.
func (g *SessionGate) Subscribe(fn func(AuthState)) func() {
	g.mu.Lock()
	id := g.nextSubID
	g.nextSubID++
	g.subscribers[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
}

func (g *SessionGate) setState(state AuthState, session *UserSession) {
	g.mu.Lock()
	g.state = state
	g.session = session
	subs := make([]func(AuthState), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// State returns the current auth state.
func (g *SessionGate) State() AuthState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the active user session, or nil when signed out.
func (g *SessionGate) Session() *UserSession {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Resolve loads the persisted session, refreshing the token when expired,
// and moves the gate out of the loading state. A missing or unusable
// session resolves to signed-out after the debounce delay.
func (g *SessionGate) Resolve(ctx context.Context) AuthState {
	session, err := loadSessionFile(g.sessionPath)
	if err != nil {
		LogDebug("no stored session: %v", err)
		time.Sleep(signedOutDebounce)
		g.setState(AuthStateSignedOut, nil)
		return AuthStateSignedOut
	}

	if session.Expired() {
		refreshed, err := g.identity.Refresh(ctx, session)
		if err != nil {
			LogWarn("session refresh failed: %v", err)
			time.Sleep(signedOutDebounce)
			g.setState(AuthStateSignedOut, nil)
			return AuthStateSignedOut
		}
		session = refreshed
		if err := saveSessionFile(g.sessionPath, session); err != nil {
			LogWarn("failed to persist refreshed session: %v", err)
		}
	}

	g.setState(AuthStateSignedIn, session)
	return AuthStateSignedIn
}

// Require resolves the gate if still loading and returns
// ErrNotAuthenticated when no user is present.
func (g *SessionGate) Require(ctx context.Context) (*UserSession, error) {
	if g.State() == AuthStateLoading {
		g.Resolve(ctx)
	}
	session := g.Session()
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}

// SignIn stores the session for the signed-in user and notifies
// subscribers.
func (g *SessionGate) SignIn(session *UserSession) error {
	if err := saveSessionFile(g.sessionPath, session); err != nil {
		return err
	}
	g.setState(AuthStateSignedIn, session)
	return nil
}

// SignOut drops the stored session and notifies subscribers.
func (g *SessionGate) SignOut() error {
	if err := os.Remove(g.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	g.setState(AuthStateSignedOut, nil)
	return nil
}

func loadSessionFile(path string) (*UserSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var session UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.IDToken == "" {
		return nil, fmt.Errorf("session file has no token")
	}
	return &session, nil
}

func saveSessionFile(path string, session *UserSession) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
