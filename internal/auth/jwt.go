// Package auth provides the session token and password machinery behind the
// login flow.
//
// SESSION FLOW:
//  1. POST /register or /login verifies credentials (service layer)
//  2. the handler asks TokenService for a signed JWT and sets it as an
//     HttpOnly "session" cookie
//  3. on every later request, middleware reads the cookie, validates the
//     signature and expiry, and puts the user ID into the request context
//
// WHY A JWT COOKIE RATHER THAN SERVER-SIDE SESSIONS?
// The token is self-contained: subject (user ID) and expiry live inside the
// signed payload, so authenticating a request costs zero database lookups.
// The trade-off is that "logout" only deletes the cookie — the token stays
// technically valid until it expires. Acceptable here: single server, no
// token revocation requirement anywhere in the app.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is how long a login lasts. A day suits a full-page-reload site
// where users expect to stay signed in across a working session; there is no
// refresh-token dance.
const sessionTTL = 24 * time.Hour

const issuer = "mentorhub"

// TokenService signs and validates session tokens. It holds the HMAC secret
// — the same SECRET_KEY that signs the flash cookie, supplied by the
// environment and defaulted only for development.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. SECRET_KEY=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user's internal ID rides in the
// standard "sub" (Subject) claim.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, sessionTTL)
}

// GenerateWithDuration creates a token with a custom lifetime. Exposed so
// expiry behaviour can be tested without waiting a day.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
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

// Validate parses and verifies a token string and returns the userID it
// encodes.
//
// jwt.WithValidMethods pins the algorithm to HS256 — without it an attacker
// could try an algorithm-confusion token ("alg":"none") and some parsers
// would wave it through. Issuer and expiry are checked by the library too.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
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

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
