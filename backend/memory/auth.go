package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/backend"
)

// Auth is an in-memory backend.Auth with a single admin account
type Auth struct {
	mu       sync.Mutex
	email    string
	hash     string
	ttl      time.Duration
	sessions map[string]backend.Session
	now      func() time.Time
}

// NewAuth accepts exactly one email/password pair
func NewAuth(email, password string) *Auth {
	return &Auth{
		email:    email,
		hash:     hashPassword(password),
		ttl:      time.Hour,
		sessions: make(map[string]backend.Session),
		now:      time.Now,
	}
}

func (a *Auth) SignIn(_ context.Context, email, password string) (*backend.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !strings.EqualFold(email, a.email) || hashPassword(password) != a.hash {
		return nil, backend.ErrInvalidCredentials
	}
	s := backend.Session{
		AccessToken: uuid.NewString(),
		UserID:      "memory-admin",
		Email:       a.email,
		ExpiresAt:   a.now().Add(a.ttl),
	}
	a.sessions[s.AccessToken] = s
	return &s, nil
}

func (a *Auth) GetSession(_ context.Context, accessToken string) (*backend.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[accessToken]
	if !ok || accessToken == "" {
		return nil, backend.ErrNoSession
	}
	if !a.now().Before(s.ExpiresAt) {
		delete(a.sessions, accessToken)
		return nil, backend.ErrNoSession
	}
	return &s, nil
}

func (a *Auth) SignOut(_ context.Context, accessToken string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, accessToken)
	return nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
