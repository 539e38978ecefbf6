package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/repository"
)

// MockTransportCardRepository is a mock implementation of TransportCardRepository.
// WithTransaction runs the callback against the mock itself so balance logic
// is exercised without a database.
type MockTransportCardRepository struct {
	mock.Mock
}

func (m *MockTransportCardRepository) Create(ctx context.Context, card *model.TransportCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockTransportCardRepository) Update(ctx context.Context, card *model.TransportCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockTransportCardRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TransportCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransportCard), args.Error(1)
}

func (m *MockTransportCardRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*model.TransportCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransportCard), args.Error(1)
}

func (m *MockTransportCardRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

func (m *MockTransportCardRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.TransportCardRepository) error) error {
	return fn(ctx, m)
}

func existingUserRepo(userID uuid.UUID) *MockUserRepository {
	repo := new(MockUserRepository)
	repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "test@example.com"}, nil)
	return repo
}

func TestTransportService_GetBalance(t *testing.T) {
	userID := uuid.New()

	t.Run("existing card returns balance", func(t *testing.T) {
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserID", mock.Anything, userID).Return(&model.TransportCard{
			UserID:  userID,
			Balance: decimal.RequireFromString("12.34"),
		}, nil)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		balance, err := svc.GetBalance(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "12.34", balance.StringFixed(2))
	})

	t.Run("missing card is materialized with zero balance", func(t *testing.T) {
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		cardRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.TransportCard")).Return(nil)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		balance, err := svc.GetBalance(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
		cardRepo.AssertExpectations(t)
	})

	t.Run("unknown user is an error", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewTransportService(new(MockTransportCardRepository), userRepo)

		_, err := svc.GetBalance(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestTransportService_Recharge(t *testing.T) {
	userID := uuid.New()

	t.Run("invalid amounts rejected", func(t *testing.T) {
		svc := NewTransportService(new(MockTransportCardRepository), existingUserRepo(userID))

		for _, raw := range []string{"0", "-0.01", "-10"} {
			_, err := svc.Recharge(context.Background(), userID, decimal.RequireFromString(raw))
			assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, "amount %s", raw)
		}
	})

	t.Run("recharge adds to existing balance", func(t *testing.T) {
		card := &model.TransportCard{
			ID:      uuid.New(),
			UserID:  userID,
			Balance: decimal.RequireFromString("1.50"),
		}
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(card, nil)
		cardRepo.On("UpdateBalance", mock.Anything, card.ID, decimal.RequireFromString("11.50")).Return(nil)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		updated, err := svc.Recharge(context.Background(), userID, decimal.RequireFromString("10.00"))
		require.NoError(t, err)
		assert.Equal(t, "11.50", updated.Balance.StringFixed(2))
		cardRepo.AssertExpectations(t)
	})

	t.Run("recharge creates missing card", func(t *testing.T) {
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		cardRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.TransportCard")).Return(nil)
		cardRepo.On("UpdateBalance", mock.Anything, mock.Anything, decimal.RequireFromString("25.00")).Return(nil)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		updated, err := svc.Recharge(context.Background(), userID, decimal.RequireFromString("25.00"))
		require.NoError(t, err)
		assert.Equal(t, "25.00", updated.Balance.StringFixed(2))
	})
}

func TestTransportService_Charge(t *testing.T) {
	userID := uuid.New()

	t.Run("invalid amounts rejected", func(t *testing.T) {
		svc := NewTransportService(new(MockTransportCardRepository), existingUserRepo(userID))

		for _, raw := range []string{"0", "-4.40"} {
			_, err := svc.Charge(context.Background(), userID, decimal.RequireFromString(raw), "")
			assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, "amount %s", raw)
		}
	})

	t.Run("charging without a card never creates one", func(t *testing.T) {
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		_, err := svc.Charge(context.Background(), userID, decimal.RequireFromString("4.40"), "bus fare")
		assert.ErrorIs(t, err, apperrors.ErrCardNotFound)
		cardRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insufficient balance rejected, balance unchanged", func(t *testing.T) {
		card := &model.TransportCard{
			ID:      uuid.New(),
			UserID:  userID,
			Balance: decimal.RequireFromString("3.00"),
		}
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(card, nil)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		_, err := svc.Charge(context.Background(), userID, decimal.RequireFromString("4.40"), "")
		assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
		assert.Equal(t, "3.00", card.Balance.StringFixed(2))
		cardRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("exact decimal arithmetic", func(t *testing.T) {
		card := &model.TransportCard{
			ID:      uuid.New(),
			UserID:  userID,
			Balance: decimal.RequireFromString("10.00"),
		}
		cardRepo := new(MockTransportCardRepository)
		cardRepo.On("FindByUserIDForUpdate", mock.Anything, userID).Return(card, nil)
		cardRepo.On("UpdateBalance", mock.Anything, card.ID, decimal.RequireFromString("5.60")).Return(nil)
		svc := NewTransportService(cardRepo, existingUserRepo(userID))

		updated, err := svc.Charge(context.Background(), userID, decimal.RequireFromString("4.40"), "bus fare")
		require.NoError(t, err)
		assert.Equal(t, "5.60", updated.Balance.StringFixed(2))
		assert.True(t, updated.Balance.Equal(decimal.RequireFromString("5.60")))
	})
}
