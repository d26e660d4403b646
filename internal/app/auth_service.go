// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"accounts/internal/domain"
)

// dummyPasswordHash is verified against when a username is unknown so that
// login takes the same time whether or not the user exists. It never matches
// any password.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates registration and login.
type AuthService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	tokens *TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a new user with the VIEWER role. All fields are required;
// a taken username or email fails with ErrConflict. The pre-insert lookup is
// best effort only; the store's uniqueness constraint has the final word, and
// a constraint violation also surfaces as ErrConflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	existing, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleViewer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown usernames and
// wrong passwords fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("look up user: %w", err)
	}

	// Always run a verification so response time does not reveal whether the
	// username exists.
	targetHash := dummyPasswordHash
	if user != nil && user.PasswordHash != "" {
		targetHash = user.PasswordHash
	}
	valid := s.hasher.Verify(password, targetHash)
	if user == nil || user.PasswordHash == "" || !valid {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Provision returns the user with the given username, creating a VIEWER
// account on first sight. Used by the SSO callback after the identity provider
// has verified the user; such accounts have no local password.
func (s *AuthService) Provision(ctx context.Context, username, email string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	now := time.Now().UTC()
	user = &domain.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Role:      domain.RoleViewer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent first login; fetch the winner.
		if errors.Is(err, domain.ErrDuplicate) {
			return s.users.GetByUsername(ctx, username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// IssueToken signs a session token for an already-authenticated user.
func (s *AuthService) IssueToken(u *domain.User) (string, error) {
	return s.tokens.Issue(u)
}
