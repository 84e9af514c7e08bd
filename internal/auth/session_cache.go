package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"userapi/internal/cache"
	"userapi/internal/model"
)

const sessionKeyPrefix = "session:find_hash:"

// SessionTTL bounds how long a resolved user may be served from cache.
// Rotation and deletion invalidate eagerly; the TTL is the backstop for
// entries whose invalidation was lost to a redis hiccup.
const SessionTTL = 5 * time.Minute

// ErrSessionMiss is returned when no cached user exists for a find hash.
var ErrSessionMiss = errors.New("session not cached")

// SessionCacheInterface defines the cache of token-resolved users, keyed
// by find hash.
type SessionCacheInterface interface {
	Put(ctx context.Context, findHash string, user *model.User) error
	Get(ctx context.Context, findHash string) (*model.User, error)
	Invalidate(ctx context.Context, findHash string) error
}

// SessionCache stores resolved users in Redis so protected routes skip a
// database round trip on repeat requests with the same token.
type SessionCache struct {
	cache *cache.Client
}

// Ensure SessionCache implements SessionCacheInterface
var _ SessionCacheInterface = (*SessionCache)(nil)

// sessionRecord is the cache wire format. model.User hides PasswordHash
// and FindHash from JSON, so the record spells every field out; a cached
// user must round-trip complete or later saves would clobber the hash.
type sessionRecord struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	FindHash     *string   `json:"find_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSessionCache creates a session cache. A nil cache client yields a
// cache that always misses.
func NewSessionCache(cache *cache.Client) *SessionCache {
	return &SessionCache{cache: cache}
}

// Put stores the resolved user under its find hash.
func (s *SessionCache) Put(ctx context.Context, findHash string, user *model.User) error {
	rec := sessionRecord{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FindHash:     user.FindHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+findHash, payload, SessionTTL)
}

// Get retrieves the cached user for a find hash, or ErrSessionMiss.
func (s *SessionCache) Get(ctx context.Context, findHash string) (*model.User, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+findHash)
	if err != nil || data == nil {
		return nil, ErrSessionMiss
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, ErrSessionMiss
	}
	return &model.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		FindHash:     rec.FindHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}

// Invalidate drops the cached user for a find hash.
func (s *SessionCache) Invalidate(ctx context.Context, findHash string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+findHash)
}
