// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trailbook/trailbook/internal/auth"
	"github.com/trailbook/trailbook/internal/cache"
	"github.com/trailbook/trailbook/internal/model"
	"github.com/trailbook/trailbook/internal/repository"
)

// Account service errors.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountService handles registration, login and profile lookup.
type AccountService struct {
	repo     *repository.Repository
	cache    *cache.Cache
	secret   []byte
	tokenTTL time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *repository.Repository, cacheClient *cache.Cache, tokenSecret string, tokenTTL time.Duration) *AccountService {
	return &AccountService{
		repo:     repo,
		cache:    cacheClient,
		secret:   []byte(tokenSecret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a new account and issues an access token for it.
func (s *AccountService) Register(ctx context.Context, fullName, email, password string) (*model.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := auth.IssueToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.IssueToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// CurrentUser returns the profile of the authenticated user. Profiles
// are read through the Redis cache; cache failures fall back to the
// database silently.
func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if s.cache != nil {
		if cached, _ := s.cache.GetUser(ctx, userID); cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetUser(ctx, user)
	}

	return user, nil
}
