package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"userapi/internal/auth"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
	"userapi/internal/repository"
)

// AuthService handles login and bearer-token resolution.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	ResolveToken(ctx context.Context, tokenString string) (*model.User, error)
	ResolveFindHash(ctx context.Context, findHash string) (*model.User, error)
}

type authService struct {
	repo     repository.UserRepository
	creds    CredentialService
	tokens   *auth.TokenService
	sessions auth.SessionCacheInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, creds CredentialService, tokens *auth.TokenService, sessions auth.SessionCacheInterface) AuthService {
	return &authService{
		repo:     repo,
		creds:    creds,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Login verifies the credentials, rotates the user's find hash, and signs
// a bearer token bound to the fresh hash. Rotation means every previously
// issued token for this user stops resolving.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUnknownUser
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := s.creds.VerifyPassword(password, user.PasswordHash); err != nil {
		return "", err
	}

	findHash, err := s.creds.GenerateFindHash(ctx, user)
	if err != nil {
		return "", err
	}

	return s.tokens.Sign(findHash)
}

// ResolveToken verifies a token's signature and resolves its claim to a
// user. HTTP handlers take the two steps separately (the JWT middleware
// parses, ResolveFindHash resolves); this is the composed path for
// callers holding a raw token string.
func (s *authService) ResolveToken(ctx context.Context, tokenString string) (*model.User, error) {
	findHash, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	return s.ResolveFindHash(ctx, findHash)
}

// ResolveFindHash looks up the user whose current find hash equals the
// token claim, consulting the session cache first. A claim that matches
// no user means the token was revoked by rotation or the user is gone.
func (s *authService) ResolveFindHash(ctx context.Context, findHash string) (*model.User, error) {
	if user, err := s.sessions.Get(ctx, findHash); err == nil {
		return user, nil
	}

	user, err := s.repo.FindByFindHash(ctx, findHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownToken
		}
		return nil, fmt.Errorf("find user by find hash: %w", err)
	}

	_ = s.sessions.Put(ctx, findHash, user)
	return user, nil
}
