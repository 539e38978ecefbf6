package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/storage"
)

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, document *model.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestStorage(t *testing.T) *storage.LocalStorage {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestDocumentService_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("stores file and normalizes type", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		docRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).Return(nil)
		st := newTestStorage(t)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), st)

		document, err := svc.Create(context.Background(), userID, "cnh", "My license", "license.pdf", strings.NewReader("content"))
		require.NoError(t, err)
		assert.Equal(t, model.DocumentTypeDrivingLicense, document.Type)
		assert.Equal(t, "My license", document.Name)

		f, err := st.Open(document.FilePath)
		require.NoError(t, err)
		f.Close()
	})

	t.Run("removes file when insert fails", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		docRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Document")).Return(gorm.ErrInvalidData)
		st := newTestStorage(t)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), st)

		_, err := svc.Create(context.Background(), userID, "cpf", "Doc", "doc.pdf", strings.NewReader("content"))
		assert.Error(t, err)
	})

	t.Run("unknown user rejected before touching storage", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewDocumentService(new(MockDocumentRepository), userRepo, newTestStorage(t))

		_, err := svc.Create(context.Background(), userID, "cpf", "Doc", "doc.pdf", strings.NewReader("content"))
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestDocumentService_Get(t *testing.T) {
	userID := uuid.New()
	documentID := uuid.New()

	t.Run("owner reads own document", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, documentID).Return(&model.Document{
			ID: documentID, UserID: userID, Name: "Doc",
		}, nil)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), newTestStorage(t))

		document, err := svc.Get(context.Background(), documentID, userID)
		require.NoError(t, err)
		assert.Equal(t, documentID, document.ID)
	})

	t.Run("foreign document reported as not found", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, documentID).Return(&model.Document{
			ID: documentID, UserID: uuid.New(), Name: "Doc",
		}, nil)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), newTestStorage(t))

		_, err := svc.Get(context.Background(), documentID, userID)
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	})

	t.Run("missing document", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, documentID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), newTestStorage(t))

		_, err := svc.Get(context.Background(), documentID, userID)
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("deletes record and stored file", func(t *testing.T) {
		st := newTestStorage(t)
		relPath, err := st.Save(userID, "doc.pdf", strings.NewReader("content"))
		require.NoError(t, err)

		documentID := uuid.New()
		docRepo := new(MockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, documentID).Return(&model.Document{
			ID: documentID, UserID: userID, FilePath: relPath,
		}, nil)
		docRepo.On("Delete", mock.Anything, documentID).Return(nil)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), st)

		require.NoError(t, svc.Delete(context.Background(), documentID, userID))
		_, err = os.Stat(st.AbsolutePath(relPath))
		assert.True(t, os.IsNotExist(err))
		docRepo.AssertExpectations(t)
	})

	t.Run("foreign document cannot be deleted", func(t *testing.T) {
		documentID := uuid.New()
		docRepo := new(MockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, documentID).Return(&model.Document{
			ID: documentID, UserID: uuid.New(),
		}, nil)
		svc := NewDocumentService(docRepo, existingUserRepo(userID), newTestStorage(t))

		err := svc.Delete(context.Background(), documentID, userID)
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
		docRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
