// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER SPLIT:
//
//	Handler (HTTP)      → parses forms, sets cookies, renders templates
//	Service (business)  → validates, enforces ownership rules, orchestrates
//	Repository (data)   → reads/writes SQLite
//
// Services accept primitives and return domain errors from apperror; they
// know nothing about HTTP, templates, or SQL. Every service receives its
// repositories as interfaces, so tests swap in in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/mentorhub/internal/apperror"
	"github.com/sakif/mentorhub/internal/auth"
	"github.com/sakif/mentorhub/internal/model"
	"github.com/sakif/mentorhub/internal/repository"
)

// AuthService is the credential store: registration, login verification,
// and self-service profile edits.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// Validation mirrors the registration form: every field required, role must
// be mentor or mentee. The email is lowercased before the duplicate check
// and the insert, so "Ada@x.com" and "ada@x.com" are the same account — and
// the users table's NOCASE unique index backstops the check against races
// (two concurrent registrations of the same address: one insert wins, the
// other surfaces as the same Conflict error).
//
// Only the bcrypt hash of the password is ever stored.
func (s *AuthService) Register(ctx context.Context, name, email string, role model.Role, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Please fill out all required fields.")
	}
	if !role.IsValid() {
		return nil, apperror.ValidationFailed("role", "Please choose a valid role.")
	}

	// Friendly-path duplicate check. The unique index is the real guarantee;
	// this just catches the common case before paying for a bcrypt hash.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("An account with that email already exists.")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("role", string(role)),
	)

	return user, nil
}

// Authenticate verifies an email/password pair and returns the account.
//
// Both failure modes — unknown email and wrong password — return the same
// Unauthorized error with the same message, so the login form can't be used
// to enumerate registered addresses.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid email or password.")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password.")
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))

	return user, nil
}

// GetUser returns the account for the given ID. Used by handlers to resolve
// the current principal into a full record.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies a self-service profile edit: name, bio, skills,
// availability. A blank name keeps the current one (submitting an empty
// field never wipes the display name); the free-text fields are taken as
// given, including cleared. Email, role, and password are not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, bio, skills, availability string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	user.Bio = strings.TrimSpace(bio)
	user.Skills = strings.TrimSpace(skills)
	user.Availability = strings.TrimSpace(availability)

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating profile for %s: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))

	return user, nil
}
