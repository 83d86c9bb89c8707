package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend/memory"
)

func protected(t *testing.T, g *Guard) (http.Handler, *bool) {
	t.Helper()
	reached := false
	h := g.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		s, ok := FromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "admin@example.com", s.Email)
		w.WriteHeader(http.StatusOK)
	}))
	return h, &reached
}

func TestRequireRedirectsPagesWithoutSession(t *testing.T) {
	h, reached := protected(t, NewGuard(memory.NewAuth("admin@example.com", "pw")))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	assert.False(t, *reached)
}

func TestRequireAnswersAPIWith401(t *testing.T) {
	h, reached := protected(t, NewGuard(memory.NewAuth("admin@example.com", "pw")))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","status":"error"}`, rec.Body.String())
	assert.False(t, *reached)
}

func TestRequirePassesWithSessionCookie(t *testing.T) {
	auth := memory.NewAuth("admin@example.com", "pw")
	s, err := auth.SignIn(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	h, reached := protected(t, NewGuard(auth))

	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.AccessToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestRequirePassesWithBearerToken(t *testing.T) {
	auth := memory.NewAuth("admin@example.com", "pw")
	s, err := auth.SignIn(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	h, reached := protected(t, NewGuard(auth))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestRequireSkipsLoginPage(t *testing.T) {
	g := NewGuard(memory.NewAuth("admin@example.com", "pw"))
	reached := false
	h := g.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true }))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, LoginPath, nil))
	assert.True(t, reached)
}

func TestLoginSetsCookieAndLogoutClearsIt(t *testing.T) {
	auth := memory.NewAuth("admin@example.com", "pw")
	g := NewGuard(auth, WithSecureCookie(true))

	rec := httptest.NewRecorder()
	s, err := g.Login(rec, httptest.NewRequest(http.MethodPost, LoginPath, nil), " admin@example.com ", "pw")
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, s.AccessToken, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	g.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)

	_, err = auth.GetSession(context.Background(), s.AccessToken)
	assert.Error(t, err)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	g := NewGuard(memory.NewAuth("admin@example.com", "pw"))
	rec := httptest.NewRecorder()
	_, err := g.Login(rec, httptest.NewRequest(http.MethodPost, LoginPath, nil), "admin@example.com", "nope")
	assert.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(req))

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie"})
	assert.Equal(t, "cookie", TokenFromRequest(req))
}
