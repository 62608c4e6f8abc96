package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadengine/internal/auth"
	"leadengine/internal/model"
	"leadengine/internal/repository"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrEmailTaken maps to a 409 at the HTTP layer.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned for deactivated accounts.
	ErrAccountDisabled = errors.New("account is deactivated")

	// ErrInvalidToken is returned for malformed, expired or orphaned tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Email         string
	Password      string
	FullName      string
	CommunityName string
}

// ProfileUpdate carries the mutable account profile fields. Nil pointers
// leave the stored value unchanged.
type ProfileUpdate struct {
	FullName      *string
	CommunityID   *string
	CommunityName *string
	APIKey        *string
}

// AuthResult pairs an authenticated user with a fresh access token.
type AuthResult struct {
	User        *model.User
	AccessToken string
}

// AuthService defines the account and session use cases.
type AuthService interface {
	// Signup registers a new account and returns it with an access token.
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)

	// Login verifies credentials and returns the user with a fresh token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Authenticate resolves an access token to its active user.
	Authenticate(ctx context.Context, token string) (*model.User, error)

	// UpdateProfile applies a partial profile update.
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	tokens *auth.TokenManager
	now    func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, hasher *auth.Hasher, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrEmailRequired
	}
	if len(in.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:            uuid.New().String(),
		Email:         email,
		PasswordHash:  hash,
		FullName:      strings.TrimSpace(in.FullName),
		CommunityName: strings.TrimSpace(in.CommunityName),
		IsActive:      true,
		CreatedAt:     s.now().UTC(),
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(stored.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: stored, AccessToken: token}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	u.LastLogin = &now

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, AccessToken: token}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	return u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.CommunityID != nil {
		u.CommunityID = strings.TrimSpace(*in.CommunityID)
	}
	if in.CommunityName != nil {
		u.CommunityName = strings.TrimSpace(*in.CommunityName)
	}
	if in.APIKey != nil {
		u.APIKey = strings.TrimSpace(*in.APIKey)
	}
	return s.users.Update(ctx, u)
}
