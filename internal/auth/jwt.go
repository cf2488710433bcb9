// Package auth provides JWT token issuance/validation and the GitHub OAuth
// exchange for the memories API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. The client app completes the GitHub authorization step and POSTs the
//    resulting code to /register
// 2. The server exchanges the code for a GitHub profile, creates the user on
//    first login, and returns a signed JWT
// 3. On subsequent API calls, the client sends "Authorization: Bearer <jwt>";
//    middleware validates it and hands the user ID to the handlers
//
// WHY JWT?
// JWT is stateless: the server doesn't need to store session data. All the
// information needed (userID, display name, avatar, expiry) is inside the
// signed token, and the signature ensures nobody can tamper with it without
// the secret key. The server verifies with no DB lookup at all.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sakif/memories-api/internal/model"
)

// TokenLifetime is how long an issued bearer token stays valid.
// Clients re-run the OAuth flow after expiry.
const TokenLifetime = 30 * 24 * time.Hour

const issuer = "memories-api"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET_KEY=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is the JWT payload. Besides the registered claims (the user's
// internal ID in "sub", plus expiry and issuer), the token carries the
// user's display name and avatar URL so client apps can render the signed-in
// user without an extra API call.
type Claims struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	jwt.RegisteredClaims
}

// Generate creates and signs a bearer token for the given user, valid for
// TokenLifetime (30 days).
//
// Signing algorithm: HS256 (HMAC-SHA256). Symmetric, fast, and fine for a
// single-server deployment where signer and verifier share the secret.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by Generate and by tests that need already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the userID (stored in the "sub" claim) if the token is valid.
//
// jwt.WithValidMethods pins the algorithm to HS256. Without it, an attacker
// could attempt an algorithm confusion attack with a differently-signed
// token.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
