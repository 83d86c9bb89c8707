// Package auth signs the admin in and out through Supabase Auth (GoTrue) and
// verifies the access tokens it issues.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
)

type Config struct {
	// SupabaseURL is the project URL, e.g. https://abc.supabase.co
	SupabaseURL string
	AnonKey     string
	HTTPClient  *http.Client
}

// Client implements backend.Auth
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	verifier   *Verifier
	logger     zerolog.Logger
}

func New(cfg Config, verifier *Verifier) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.SupabaseURL, "/") + "/auth/v1",
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		verifier:   verifier,
		logger:     log.With().Str("component", "supabaseAuth").Logger(),
	}
}

// JWKSURL is where a Supabase project publishes its signing keys
func JWKSURL(supabaseURL string) string {
	return strings.TrimSuffix(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
}

func (e errorResponse) message() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	body, err := json.Marshal(passwordGrant{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			c.logger.Info().Str("email", email).Str("reason", apiErr.message()).Msg("Sign-in rejected")
			return nil, backend.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth error (status %d): %s", resp.StatusCode, apiErr.message())
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("auth response carried no access token")
	}

	expiresAt := time.Unix(token.ExpiresAt, 0)
	if token.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	return &backend.Session{
		AccessToken: token.AccessToken,
		UserID:      token.User.ID,
		Email:       token.User.Email,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignOut revokes the refresh tokens of the session. A token the server no
// longer recognises counts as signed out.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	resp, err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return nil
	}
	respBody, _ := io.ReadAll(resp.Body)
	var apiErr errorResponse
	_ = json.Unmarshal(respBody, &apiErr)
	return fmt.Errorf("auth logout error (status %d): %s", resp.StatusCode, apiErr.message())
}

// GetSession verifies the access token locally
func (c *Client) GetSession(_ context.Context, accessToken string) (*backend.Session, error) {
	if accessToken == "" {
		return nil, backend.ErrNoSession
	}
	claims, err := c.verifier.Verify(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrNoSession, err)
	}

	session := &backend.Session{
		AccessToken: accessToken,
		UserID:      claims.Subject,
		Email:       claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request %s: %w", path, err)
	}
	return resp, nil
}
