// Package session keeps unauthenticated visitors out of the admin panel.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
)

const (
	CookieName = "sb-access-token"
	LoginPath  = "/admin/login"
)

type keyType string

const sessionKey keyType = "session"

func ctxWithSession(ctx context.Context, s *backend.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session stored by Require
func FromContext(ctx context.Context) (*backend.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*backend.Session)
	return s, ok && s != nil
}

type Option func(*Guard)

// WithSecureCookie marks the session cookie Secure (HTTPS only)
func WithSecureCookie(secure bool) Option {
	return func(g *Guard) { g.secure = secure }
}

// WithUnauthorizedHandler replaces the default 401 body written to API callers
func WithUnauthorizedHandler(h http.HandlerFunc) Option {
	return func(g *Guard) { g.unauthorized = h }
}

type Guard struct {
	auth         backend.Auth
	secure       bool
	unauthorized http.HandlerFunc
	logger       zerolog.Logger
}

func NewGuard(auth backend.Auth, opts ...Option) *Guard {
	g := &Guard{
		auth:         auth,
		unauthorized: writeUnauthorized,
		logger:       log.With().Str("handlerName", "sessionGuard").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Require lets a request through only with a valid session. Page requests
// without one are redirected to the login page; API requests get 401.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == LoginPath {
			next.ServeHTTP(w, r)
			return
		}

		s, err := g.auth.GetSession(r.Context(), TokenFromRequest(r))
		if err != nil {
			if !errors.Is(err, backend.ErrNoSession) {
				g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Session lookup failed")
			}
			if isAPIRequest(r) {
				g.unauthorized(w, r)
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), s)))
	})
}

// Login signs in and sets the session cookie
func (g *Guard) Login(w http.ResponseWriter, r *http.Request, email, password string) (*backend.Session, error) {
	s, err := g.auth.SignIn(r.Context(), strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	g.setCookie(w, s.AccessToken, s.ExpiresAt)
	g.logger.Info().Str("userID", s.UserID).Msg("Admin signed in")
	return s, nil
}

// Logout signs out, clears the cookie and redirects to the login page
func (g *Guard) Logout(w http.ResponseWriter, r *http.Request) {
	if err := g.auth.SignOut(r.Context(), TokenFromRequest(r)); err != nil {
		g.logger.Warn().Err(err).Msg("Sign-out failed, clearing cookie anyway")
	}
	g.setCookie(w, "", time.Unix(0, 0))
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (g *Guard) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		c.MaxAge = -1
	} else if !expires.IsZero() {
		c.Expires = expires
	}
	http.SetCookie(w, c)
}

// TokenFromRequest reads the access token from the session cookie or a
// Bearer Authorization header
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "status": "error"})
}
