package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userapi/internal/auth"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
)

func newUserService(repo *MockUserRepository) UserService {
	sessions := auth.NewSessionCache(nil)
	return NewUserService(repo, NewCredentialService(repo, sessions), sessions)
}

func TestUserService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "successful signup",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "duplicate username or email",
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := newUserService(mockRepo)
			user, err := service.Signup(context.Background(), "awesomeman", "cool@hwhip.com", "isawesome")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, "awesomeman", user.Username)
				assert.Equal(t, "cool@hwhip.com", user.Email)
				// Plaintext never reaches the repository.
				assert.NotEqual(t, "isawesome", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("isawesome")))
				assert.Nil(t, user.FindHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	t.Run("applies username change", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := newUserService(mockRepo)
		user := &model.User{Username: "awesomeman", Email: "cool@hwhip.com", PasswordHash: "hash"}

		newName := "thenewguy"
		updated, err := service.Update(context.Background(), user, UserUpdate{Username: &newName})
		assert.NoError(t, err)
		assert.Equal(t, "thenewguy", updated.Username)
		assert.Equal(t, "cool@hwhip.com", updated.Email)
		assert.Equal(t, "hash", updated.PasswordHash)
	})

	t.Run("rehashes a changed password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := newUserService(mockRepo)
		oldHash, err := bcrypt.GenerateFromPassword([]byte("isawesome"), bcryptCost)
		assert.NoError(t, err)
		user := &model.User{Username: "awesomeman", Email: "cool@hwhip.com", PasswordHash: string(oldHash)}

		newPassword := "seemsfriendly"
		updated, err := service.Update(context.Background(), user, UserUpdate{Password: &newPassword})
		assert.NoError(t, err)
		assert.NotEqual(t, string(oldHash), updated.PasswordHash)
		assert.NotEqual(t, "seemsfriendly", updated.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("seemsfriendly")))
	})

	t.Run("drops the session entry for the current hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		mockSessions := new(MockSessionCache)
		mockSessions.On("Invalidate", mock.Anything, "live-hash").Return(nil).Once()

		service := NewUserService(mockRepo, NewCredentialService(mockRepo, mockSessions), mockSessions)
		findHash := "live-hash"
		user := &model.User{Username: "awesomeman", FindHash: &findHash}

		newName := "thenewguy"
		_, err := service.Update(context.Background(), user, UserUpdate{Username: &newName})
		assert.NoError(t, err)
		mockSessions.AssertExpectations(t)
	})

	t.Run("conflicting change", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		service := newUserService(mockRepo)
		user := &model.User{Username: "awesomeman", Email: "cool@hwhip.com"}

		taken := "thenewguy"
		updated, err := service.Update(context.Background(), user, UserUpdate{Username: &taken})
		assert.ErrorIs(t, err, apperrors.ErrUserConflict)
		assert.Nil(t, updated)
	})
}

func TestUserService_Delete(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Delete", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockSessions := new(MockSessionCache)
	mockSessions.On("Invalidate", mock.Anything, "deadbeef").Return(nil).Once()

	service := NewUserService(mockRepo, NewCredentialService(mockRepo, mockSessions), mockSessions)
	findHash := "deadbeef"
	user := &model.User{Username: "awesomeman", FindHash: &findHash}

	assert.NoError(t, service.Delete(context.Background(), user))
	mockRepo.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}
