// Package session is the single source of truth for "who is logged in".
//
// It owns the persisted bearer credential and the resolved user identity, and
// runs the asynchronous identity-resolution sequence that happens whenever a
// persisted credential exists at startup. The store is explicitly constructed
// and injected into its consumers; nothing here is an ambient singleton.
package session

import (
	"context"
	"sync"

	"github.com/gadgetloop/storefront/internal/api"
	"github.com/gadgetloop/storefront/internal/credentials"
	"github.com/gadgetloop/storefront/internal/log"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnresolved means no resolution attempt has been made yet.
	StatusUnresolved Status = iota
	// StatusResolving means an identity fetch is in flight.
	StatusResolving
	// StatusResolved means the user identity is known.
	StatusResolved
	// StatusAnonymous means there is no usable credential.
	StatusAnonymous
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusResolving:
		return "resolving"
	case StatusResolved:
		return "resolved"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Roles the backend assigns to users.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User is the resolved profile of the logged-in user.
type User struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Verified   bool   `json:"verified"`
	VerifiedAs string `json:"verifiedAs,omitempty"`
}

// Snapshot is a point-in-time view of the session, safe to hold across async
// boundaries. User is non-nil only when Status is StatusResolved.
type Snapshot struct {
	Status Status
	User   *User
}

// Store owns the authentication state.
//
// Invariant: the user is present only when status is resolved, and the
// persisted credential and resolved user are only ever updated together,
// inside Login, Logout, and the bootstrap resolution.
type Store struct {
	client *api.Client
	creds  *credentials.Store
	logger *log.Logger

	mu        sync.Mutex
	status    Status
	user      *User
	resolving chan struct{}
	onLogout  []func()
}

// NewStore creates a session store over the given API client and credential
// slot. The store starts unresolved; call Bootstrap to read the persisted
// credential.
func NewStore(client *api.Client, creds *credentials.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Store{
		client: client,
		creds:  creds,
		logger: logger,
		status: StatusUnresolved,
	}
}

// Snapshot returns the current session state. The returned user is a copy.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Status: s.status}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Status returns the current lifecycle status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentUser returns the resolved user, if any.
func (s *Store) CurrentUser() (*User, bool) {
	snap := s.Snapshot()
	return snap.User, snap.User != nil
}

// OnLogout registers a listener invoked after every logout. The cart store
// uses this to clear itself; the session store knows nothing about carts.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Bootstrap reads the persisted credential and, if one exists, resolves the
// user identity against the backend. It returns the terminal status.
//
// Bootstrap is idempotent: a second call while a resolution is in flight
// joins the in-flight result instead of issuing a duplicate remote call, and
// calls after the first completion return the already-settled status.
//
// Resolution failures are non-fatal and silent: the credential is discarded
// and the status degrades to anonymous, exactly as if the user were logged
// out. A network failure is treated the same as a rejected token, since the
// caller cannot tell the two apart and the consequence (send to login) is
// identical.
func (s *Store) Bootstrap(ctx context.Context) Status {
	s.mu.Lock()

	if s.status == StatusResolving {
		done := s.resolving
		s.mu.Unlock()
		select {
		case <-done:
			return s.Status()
		case <-ctx.Done():
			return StatusResolving
		}
	}

	if s.status != StatusUnresolved {
		status := s.status
		s.mu.Unlock()
		return status
	}

	creds, err := s.creds.Load()
	if err != nil || !creds.Present() {
		if err != nil {
			s.logger.WithError(err).Warn("credential slot unreadable, treating as logged out")
		}
		s.status = StatusAnonymous
		s.mu.Unlock()
		return StatusAnonymous
	}

	s.status = StatusResolving
	s.resolving = make(chan struct{})
	done := s.resolving
	s.client.SetToken(creds.Token)
	s.mu.Unlock()

	user, fetchErr := s.fetchUser(ctx)

	s.mu.Lock()
	if fetchErr != nil {
		// Silent degrade: the credential is gone and the user is simply
		// treated as logged out. Never leave the status stuck at resolving.
		s.logger.WithError(fetchErr).Debug("identity resolution failed, degrading to anonymous")
		_ = s.creds.Clear()
		s.client.SetToken("")
		s.user = nil
		s.status = StatusAnonymous
	} else {
		s.user = user
		s.status = StatusResolved
	}
	close(done)
	status := s.status
	s.mu.Unlock()
	return status
}

// Login persists the credential and records the resolved user.
//
// No remote verification is re-performed: the caller is trusted, typically
// having just completed a successful authentication call. Callers that need
// the authoritative profile afterward use Refresh.
func (s *Store) Login(token string, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.creds.Save(credentials.Credentials{Token: token, Email: user.Email}); err != nil {
		return err
	}

	s.client.SetToken(token)
	s.user = &user
	s.status = StatusResolved
	return nil
}

// Logout clears the persisted credential and the resolved user, then
// notifies logout listeners.
//
// The session is anonymous afterward regardless of prior state, even when
// removing the credential file fails; the error is returned so the caller
// can warn, but the in-memory state never keeps a dead session alive.
func (s *Store) Logout() error {
	s.mu.Lock()
	clearErr := s.creds.Clear()
	s.client.SetToken("")
	s.user = nil
	s.status = StatusAnonymous
	listeners := make([]func(), len(s.onLogout))
	copy(listeners, s.onLogout)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return clearErr
}

// Refresh re-fetches the authoritative profile for an already-resolved
// session. Unlike Bootstrap it is not idempotent and always issues a remote
// call; a failure degrades the session the same way a failed bootstrap does.
func (s *Store) Refresh(ctx context.Context) (Status, error) {
	if !s.client.HasToken() {
		s.mu.Lock()
		s.user = nil
		s.status = StatusAnonymous
		s.mu.Unlock()
		return StatusAnonymous, nil
	}

	user, err := s.fetchUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		_ = s.creds.Clear()
		s.client.SetToken("")
		s.user = nil
		s.status = StatusAnonymous
		return StatusAnonymous, err
	}
	s.user = user
	s.status = StatusResolved
	return StatusResolved, nil
}

// profileEnvelope is the backend's profile response wrapper.
type profileEnvelope struct {
	Data User `json:"data"`
}

func (s *Store) fetchUser(ctx context.Context) (*User, error) {
	var envelope profileEnvelope
	if err := s.client.Get(ctx, api.PathProfile, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}
