// Package auth provides JWT token generation and validation for the notes API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers (POST /register) or logs in (POST /login, or via Google)
// 2. Server verifies credentials and issues a signed JWT carrying {id, email}
// 3. The client sends it back on every API call: Authorization: Bearer <jwt>
// 4. Middleware validates the signature and puts the identity in the request
//    context — note handlers read the owner email from there, never from the
//    request body
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (user ID, email, expiry) is inside the
// signed token. The signature ensures nobody can tamper with it without the
// secret key, and verification needs no DB lookup.
//
// TOKEN LIFETIMES:
// Registration issues a token with a 1-hour expiry. Login and the Google
// callback issue tokens with NO expiry — that asymmetry is part of the
// deployed contract (clients hold login tokens indefinitely), so both paths
// are kept: Generate for open-ended tokens, GenerateExpiring for bounded ones.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a validated token asserts: which user is calling, and
// the email their notes are filed under.
type Identity struct {
	UserID string
	Email  string
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — there is no rotation mechanism,
// the secret is process-wide configuration.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. UserID and Email marshal as "id" and "email" —
// the claim names the client decodes — alongside the standard registered
// claims (iat, and exp when set).
type claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Generate creates and signs a JWT with no expiry for the given identity.
// Used by the login and Google-callback flows.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key for signing and verifying
// - Fast and simple — good for single-server deployments
func (s *TokenService) Generate(userID, email string) (string, error) {
	return s.sign(claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
}

// GenerateExpiring creates a token that expires after ttl.
// Registration uses this with a 1-hour ttl; tests use it with negative
// durations to mint already-expired tokens.
func (s *TokenService) GenerateExpiring(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	return s.sign(claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
}

func (s *TokenService) sign(c claims) (string, error) {
	// jwt.NewWithClaims creates an unsigned token with the given algorithm.
	// SignedString(key) signs it and returns the complete JWT string.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired — but only when an exp claim is present, since
//     login-issued tokens legitimately carry none
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// ALGORITHM CONFUSION ATTACK:
// Without checking the algorithm, an attacker could send a token signed with
// "none" and the library might accept it. Passing jwt.WithValidMethods and
// rejecting non-HMAC methods in the keyfunc prevents this.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HS256
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		// Translate jwt library errors into cleaner messages
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, fmt.Errorf("auth: token expired")
		}
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}

	if c.UserID == "" || c.Email == "" {
		return Identity{}, fmt.Errorf("auth: token missing identity claims")
	}

	return Identity{UserID: c.UserID, Email: c.Email}, nil
}
