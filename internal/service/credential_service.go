package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userapi/internal/auth"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
	"userapi/internal/repository"
)

const (
	bcryptCost = 10

	findHashBytes = 32
	// findHashAttempts bounds the retry loop when a freshly generated find
	// hash collides with the unique index. Collisions in a 256-bit random
	// space are near-certainly transient, so a handful of retries absorbs
	// them; anything more persistent is an infrastructure problem.
	findHashAttempts = 4
)

// CredentialService owns password hashing, verification, and the find-hash
// lifecycle of the User entity.
type CredentialService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, passwordHash string) error
	GenerateFindHash(ctx context.Context, user *model.User) (string, error)
}

type credentialService struct {
	repo     repository.UserRepository
	sessions auth.SessionCacheInterface
}

// NewCredentialService builds a credential service over the user repository.
func NewCredentialService(repo repository.UserRepository, sessions auth.SessionCacheInterface) CredentialService {
	return &credentialService{repo: repo, sessions: sessions}
}

// HashPassword computes a bcrypt hash of the plaintext at the fixed cost.
func (s *credentialService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrHashing, err)
	}
	return string(hash), nil
}

// VerifyPassword checks the plaintext against a stored bcrypt hash.
// Mismatch and malformed-hash failures both map to ErrInvalidCredentials.
func (s *credentialService) VerifyPassword(password, passwordHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}

// GenerateFindHash rotates the user's find hash: 32 random bytes,
// hex-encoded, persisted under the unique index. On a uniqueness conflict
// it retries with fresh randomness up to findHashAttempts total, then
// fails with ErrFindHashExhausted wrapping the last conflict. The session
// cache entry for the previous hash is dropped so stale tokens stop
// resolving immediately.
func (s *credentialService) GenerateFindHash(ctx context.Context, user *model.User) (string, error) {
	prev := user.FindHash

	var lastErr error
	for attempt := 0; attempt < findHashAttempts; attempt++ {
		buf := make([]byte, findHashBytes)
		if _, err := rand.Read(buf); err != nil {
			user.FindHash = prev
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		findHash := hex.EncodeToString(buf)
		user.FindHash = &findHash

		if err := s.repo.Save(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				lastErr = err
				continue
			}
			user.FindHash = prev
			return "", fmt.Errorf("save find hash: %w", err)
		}

		if prev != nil {
			_ = s.sessions.Invalidate(ctx, *prev)
		}
		return findHash, nil
	}

	user.FindHash = prev
	return "", fmt.Errorf("%w: %v", apperrors.ErrFindHashExhausted, lastErr)
}
