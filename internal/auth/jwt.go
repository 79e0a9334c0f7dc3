// Package auth provides session tokens, password hashing, reset OTPs and
// Google identity verification for the CareerCraft API.
//
// SESSION FLOW OVERVIEW:
// 1. A user registers or logs in (email/password or Google)
// 2. The server issues a signed JWT carrying the user id in the "sub" claim
// 3. The client presents it on each request as "Authorization: Bearer <jwt>"
//    (the browser OAuth flow stores the same token in an HttpOnly cookie)
// 4. Middleware validates the signature and expiry and puts the userID in
//    the request context for the handlers
//
// The token is stateless — no session table. Everything needed to
// authenticate a request (user id, expiry) is inside the signed token, and
// the HMAC signature means nobody can mint or alter one without the secret.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long an issued session token stays valid.
// Thirty days keeps users logged in across visits; password changes do not
// revoke outstanding tokens (accepted trade-off of stateless sessions).
const SessionDuration = 30 * 24 * time.Hour

const issuer = "careercraft"

// TokenService signs and verifies session JWTs.
//
// It holds the HMAC secret used for both operations. The secret should be
// at least 32 bytes of random data in production:
//
//	JWT_SECRET=$(openssl rand -hex 32)
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. We only use registered claims: the user id
// travels in "sub", plus the usual iat/exp/iss bookkeeping.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID,
// valid for SessionDuration from now.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, SessionDuration)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
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

// Validate parses and verifies a JWT string and returns the userID it
// carries.
//
// The jwt library checks the signature, the expiry and the issuer for us.
// Pinning the algorithm with jwt.WithValidMethods closes the classic
// algorithm-confusion hole where an attacker submits an unsigned ("none")
// token.
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
