package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/repository"
)

// TransportService handles the transport card balance ledger.
type TransportService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	Recharge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.TransportCard, error)
	Charge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*model.TransportCard, error)
}

type transportService struct {
	cardRepo repository.TransportCardRepository
	userRepo repository.UserRepository
}

// NewTransportService creates a new transport service.
func NewTransportService(cardRepo repository.TransportCardRepository, userRepo repository.UserRepository) TransportService {
	return &transportService{
		cardRepo: cardRepo,
		userRepo: userRepo,
	}
}

func (s *transportService) requireUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}

// GetBalance returns the card balance, materializing a zero-balance card
// the first time a user asks. Absence of a card is not an error.
func (s *transportService) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	card, err := s.cardRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return decimal.Zero, fmt.Errorf("find card: %w", err)
		}
		card = &model.TransportCard{UserID: userID, Balance: decimal.Zero}
		if err := s.cardRepo.Create(ctx, card); err != nil {
			return decimal.Zero, fmt.Errorf("create card: %w", err)
		}
	}
	return card.Balance, nil
}

// Recharge adds a positive amount to the card, creating it lazily. Balance
// mutation happens under a row lock inside a transaction so concurrent
// mutations on the same card serialize instead of losing updates.
func (s *transportService) Recharge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*model.TransportCard, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var result *model.TransportCard
	err := s.cardRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TransportCardRepository) error {
		card, err := txRepo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("find card: %w", err)
			}
			card = &model.TransportCard{UserID: userID, Balance: decimal.Zero}
			if err := txRepo.Create(ctx, card); err != nil {
				return fmt.Errorf("create card: %w", err)
			}
		}

		card.Balance = card.Balance.Add(amount)
		if err := txRepo.UpdateBalance(ctx, card.ID, card.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		result = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Charge deducts a positive amount from the card. Charging never creates a
// card; the description is accepted for client bookkeeping only, no
// transaction history is persisted.
func (s *transportService) Charge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*model.TransportCard, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var result *model.TransportCard
	err := s.cardRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TransportCardRepository) error {
		card, err := txRepo.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrCardNotFound
			}
			return fmt.Errorf("find card: %w", err)
		}

		if card.Balance.LessThan(amount) {
			return apperrors.ErrInsufficientBalance
		}

		card.Balance = card.Balance.Sub(amount)
		if err := txRepo.UpdateBalance(ctx, card.ID, card.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		result = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	if description != "" {
		log.Printf("charged %s from card of user %s: %s", amount, userID, description)
	}
	return result, nil
}
