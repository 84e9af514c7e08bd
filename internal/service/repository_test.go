package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"userapi/internal/auth"
	"userapi/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByFindHash(ctx context.Context, findHash string) (*model.User, error) {
	args := m.Called(ctx, findHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockSessionCache is a mock implementation of auth.SessionCacheInterface.
type MockSessionCache struct {
	mock.Mock
}

func (m *MockSessionCache) Put(ctx context.Context, findHash string, user *model.User) error {
	args := m.Called(ctx, findHash, user)
	return args.Error(0)
}

func (m *MockSessionCache) Get(ctx context.Context, findHash string) (*model.User, error) {
	args := m.Called(ctx, findHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSessionCache) Invalidate(ctx context.Context, findHash string) error {
	args := m.Called(ctx, findHash)
	return args.Error(0)
}

// memSessionCache is an in-memory session cache for lifecycle tests that
// need cached entries to actually stick between calls. It counts hits so
// tests can tell a cache-served resolution from a repository lookup.
type memSessionCache struct {
	mu      sync.Mutex
	entries map[string]model.User
	hits    int
}

func newMemSessionCache() *memSessionCache {
	return &memSessionCache{entries: make(map[string]model.User)}
}

func (c *memSessionCache) Put(ctx context.Context, findHash string, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[findHash] = *user
	return nil
}

func (c *memSessionCache) Get(ctx context.Context, findHash string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.entries[findHash]; ok {
		c.hits++
		found := u
		return &found, nil
	}
	return nil, auth.ErrSessionMiss
}

func (c *memSessionCache) Invalidate(ctx context.Context, findHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, findHash)
	return nil
}

// memUserRepository is an in-memory repository with the same uniqueness
// contract as the GORM implementation: unique-index violations come back
// as gorm.ErrDuplicatedKey, missing rows as gorm.ErrRecordNotFound. Used
// by lifecycle tests that need real state across calls.
type memUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[uuid.UUID]model.User)}
}

func (r *memUserRepository) conflicts(candidate *model.User) bool {
	for id, u := range r.users {
		if id == candidate.ID {
			continue
		}
		if u.Username == candidate.Username || u.Email == candidate.Email {
			return true
		}
		if u.FindHash != nil && candidate.FindHash != nil && *u.FindHash == *candidate.FindHash {
			return true
		}
	}
	return false
}

func (r *memUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(user) {
		return gorm.ErrDuplicatedKey
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepository) Save(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(user) {
		return gorm.ErrDuplicatedKey
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepository) FindByFindHash(ctx context.Context, findHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FindHash != nil && *u.FindHash == findHash {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepository) Delete(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, user.ID)
	return nil
}
