package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userapi/internal/auth"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
	"userapi/internal/repository"
)

// UserUpdate carries the permitted field changes for an account update.
// Nil fields are left untouched.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// UserService exposes account lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, username, email, password string) (*model.User, error)
	Update(ctx context.Context, user *model.User, update UserUpdate) (*model.User, error)
	Delete(ctx context.Context, user *model.User) error
}

type userService struct {
	repo     repository.UserRepository
	creds    CredentialService
	sessions auth.SessionCacheInterface
}

// NewUserService builds a UserService over the repository and credential store.
func NewUserService(repo repository.UserRepository, creds CredentialService, sessions auth.SessionCacheInterface) UserService {
	return &userService{repo: repo, creds: creds, sessions: sessions}
}

// Signup creates a new user with a hashed password. The plaintext never
// reaches the repository.
func (s *userService) Signup(ctx context.Context, username, email, password string) (*model.User, error) {
	passwordHash, err := s.creds.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update applies the present fields to the user and persists. A password
// change goes through the credential store so only the hash is stored.
// The session cache entry is dropped so the next token resolution sees
// the updated record.
func (s *userService) Update(ctx context.Context, user *model.User, update UserUpdate) (*model.User, error) {
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Password != nil {
		passwordHash, err := s.creds.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserConflict
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	if user.FindHash != nil {
		_ = s.sessions.Invalidate(ctx, *user.FindHash)
	}
	return user, nil
}

// Delete removes the user record. Tokens issued against the user's find
// hash stop resolving once the record and its cache entry are gone.
func (s *userService) Delete(ctx context.Context, user *model.User) error {
	if err := s.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if user.FindHash != nil {
		_ = s.sessions.Invalidate(ctx, *user.FindHash)
	}
	return nil
}
