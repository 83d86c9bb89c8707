package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Claims are the Supabase access token claims the site relies on
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

var errInvalidToken = errors.New("invalid access token")

// Verifier checks Supabase access tokens
type Verifier struct {
	keyfunc jwt.Keyfunc
	methods []string
	logger  zerolog.Logger
}

// NewJWKSVerifier verifies asymmetric tokens against the project's JWKS.
// Keys are cached and refreshed by keyfunc.
func NewJWKSVerifier(ctx context.Context, jwksURL string) (*Verifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}
	log.Info().Str("jwksURL", jwksURL).Msg("JWT verifier initialized")
	return NewVerifier(jwks.Keyfunc, "RS256", "ES256"), nil
}

// NewSecretVerifier verifies tokens signed with the legacy shared JWT secret
func NewSecretVerifier(secret string) *Verifier {
	key := []byte(secret)
	return NewVerifier(func(*jwt.Token) (any, error) { return key, nil }, "HS256")
}

// NewVerifier accepts only the listed signing methods, which closes the
// algorithm confusion hole
func NewVerifier(kf jwt.Keyfunc, methods ...string) *Verifier {
	return &Verifier{
		keyfunc: kf,
		methods: methods,
		logger:  log.With().Str("component", "jwtVerifier").Logger(),
	}
}

// Verify parses and validates a token and requires an authenticated user
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyfunc,
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug().Err(err).Msg("Token parse failed")
		return nil, fmt.Errorf("%w: %w", errInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.Subject == "" {
		v.logger.Debug().Msg("Token missing subject claim")
		return nil, errInvalidToken
	}
	// anonymous sign-ins carry role "anon"
	if claims.Role != "authenticated" {
		v.logger.Warn().Str("role", claims.Role).Str("userID", claims.Subject).Msg("Token has invalid role")
		return nil, errInvalidToken
	}
	return claims, nil
}
