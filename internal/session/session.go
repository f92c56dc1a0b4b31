package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
)

var (
	ErrNoSession       = errors.New("not signed in")
	ErrInvalidIdentity = errors.New("identity requires a role and an id")
)

// Identity is the signed-in principal attached to backend requests.
type Identity struct {
	Role        models.Role `json:"role"`
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Email       string      `json:"email,omitempty"`
	Token       string      `json:"token,omitempty"`
	// ExpiresAt is read from the token when it is a JWT carrying exp.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the identity's token has expired at now.
func (i Identity) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// Store persists an identity across process restarts.
type Store interface {
	Save(Identity) error
	Load() (Identity, error)
	Delete() error
}

// Session holds the identity for the lifetime of the process. It is created
// once at startup and handed to every consumer; nothing reads it globally.
type Session struct {
	mu      sync.RWMutex
	current *Identity
	store   Store
	now     func() time.Time
}

type Option func(*Session)

// WithStore enables persistence through store.
func WithStore(store Store) Option {
	return func(s *Session) { s.store = store }
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(opts ...Option) *Session {
	s := &Session{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set records id as the active identity after a successful login or signup.
func (s *Session) Set(id Identity) error {
	id.ID = strings.TrimSpace(id.ID)
	if !id.Role.Valid() || id.ID == "" {
		return ErrInvalidIdentity
	}
	if id.ExpiresAt == nil {
		if exp, ok := TokenExpiry(id.Token); ok {
			id.ExpiresAt = &exp
		}
	}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()

	logger.Info("Session started", "role", id.Role, "id", id.ID)
	return nil
}

// Current returns the active identity when present and not expired.
func (s *Session) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Expired(s.now()) {
		return Identity{}, false
	}
	return *s.current, true
}

// Get returns the active identity when it has role.
func (s *Session) Get(role models.Role) (Identity, bool) {
	id, ok := s.Current()
	if !ok || id.Role != role {
		return Identity{}, false
	}
	return id, true
}

// Require is Current with an error for callers that cannot proceed without it.
func (s *Session) Require(role models.Role) (Identity, error) {
	id, ok := s.Get(role)
	if !ok {
		return Identity{}, ErrNoSession
	}
	return id, nil
}

// Token returns the bearer token of the active identity, if any.
func (s *Session) Token() string {
	id, ok := s.Current()
	if !ok {
		return ""
	}
	return id.Token
}

// Clear ends the session and removes any persisted copy.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	logger.Info("Session cleared")
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(); err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	return nil
}

// Remember persists the active identity. Requires a store.
func (s *Session) Remember() error {
	if s.store == nil {
		return errors.New("session persistence is not configured")
	}
	id, ok := s.Current()
	if !ok {
		return ErrNoSession
	}
	return s.store.Save(id)
}

// Restore loads a persisted identity. Expired identities are discarded.
func (s *Session) Restore() error {
	if s.store == nil {
		return ErrNoSession
	}
	id, err := s.store.Load()
	if err != nil {
		return err
	}
	if id.Expired(s.now()) {
		_ = s.store.Delete()
		return ErrNoSession
	}
	return s.Set(id)
}

// TokenExpiry reads the exp claim of a JWT without verifying its
// signature. Opaque tokens report false.
func TokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
