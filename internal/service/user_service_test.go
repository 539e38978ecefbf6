package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/model"
)

func TestUserService_GetUser(t *testing.T) {
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID: userID, Email: "test@example.com",
		}, nil)
		svc := NewUserService(repo, nil)

		user, err := svc.GetUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewUserService(repo, nil)

		_, err := svc.GetUser(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	userID := uuid.New()

	t.Run("deletes existing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		repo.On("Delete", mock.Anything, userID).Return(nil)
		svc := NewUserService(repo, nil)

		assert.NoError(t, svc.DeleteUser(context.Background(), userID))
		repo.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewUserService(repo, nil)

		err := svc.DeleteUser(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
