// Package service — authentication business logic.
//
// AuthService is the business logic layer for authentication. It sits between
// the HTTP handlers and the repository/auth utilities:
//
//	AuthHandler (HTTP) → AuthService (credential strategies) → UserRepository (DB)
//	                   ↘ TokenService (JWT) / PasswordService (bcrypt)
//
// TWO STRATEGIES, ONE USER RECORD:
// Local (email+password) and Google sign-in are interchangeable ways of
// proving control of an email address. Both resolve to the same canonical
// user row — looked up by email, created on first contact — and both end by
// minting a JWT for that row. The handlers never see the difference; they
// get an AuthResult either way.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// registrationTokenTTL bounds tokens minted at registration. Login-issued
// tokens carry no expiry at all — an asymmetry the deployed clients depend
// on, so both code paths keep their original behaviour.
const registrationTokenTTL = time.Hour

// ErrEmailTaken is returned by Register when the email already has an
// account. The handler turns this into a redirect to the login page rather
// than an error response.
var ErrEmailTaken = errors.New("service/auth: email already registered")

// AuthService handles the authentication business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → generate/validate JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is returned by every authentication operation. It bundles the
// resolved user record and the issued JWT so the handler can respond in one
// step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a local account and issues a 1-hour token.
//
// Flow: look the email up, bail with ErrEmailTaken if it exists, otherwise
// hash the password and insert. The lookup and insert are two separate
// store calls with no lock between them — two concurrent registrations for
// the same fresh email can both pass the check and both insert. The store
// tolerates the duplicate and email lookups pick the oldest row.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.GenerateExpiring(user.ID, user.Email, registrationTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// LoginLocal verifies an email+password pair and issues a token.
//
// Failed authentication is a RESULT, not an internal error: an unknown email
// or wrong password comes back as apperror.ErrUnauthorized with a message
// safe to show the client ("User not found" / "Invalid password"). Only
// store or hashing failures propagate as real errors.
func (s *AuthService) LoginLocal(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	// A Google-only account has no password hash; password login against it
	// fails the same way a wrong password does, without revealing which.
	if user.PasswordHash == "" || s.passwords.Verify(user.PasswordHash, password) != nil {
		s.logger.Info("login rejected", slog.String("email", email))
		return nil, apperror.Unauthorized("Invalid password")
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// LoginGoogle resolves a verified Google profile to a local account,
// creating one on first login, and issues a token.
//
// Idempotent per email: a second Google login for the same address finds
// the existing row and mints a fresh token. Like Register, the
// lookup-then-create on first login is racy under concurrency — accepted,
// same mitigation (oldest row wins on lookup).
func (s *AuthService) LoginGoogle(ctx context.Context, gUser *auth.GoogleUser) (*AuthResult, error) {
	if gUser == nil {
		return nil, fmt.Errorf("service/auth: Google user must not be nil")
	}

	user, err := s.users.GetUserByEmail(ctx, gUser.Email)
	switch {
	case err == nil:
		// Existing account — local or federated, either way the email is
		// proven, so sign them in.
	case errors.Is(err, apperror.ErrNotFound):
		user = &model.User{
			Name:     gUser.Name,
			Email:    gUser.Email,
			GoogleID: gUser.ID,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating user from Google profile: %w", err)
		}
		s.logger.Info("user created via Google",
			slog.String("userID", user.ID),
			slog.String("email", user.Email),
		)
	default:
		return nil, fmt.Errorf("service/auth: looking up %s: %w", gUser.Email, err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user authenticated via Google",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}
