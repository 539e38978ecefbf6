package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"carteira/internal/model"
)

// TransportCardRepository defines transport card persistence operations.
type TransportCardRepository interface {
	Create(ctx context.Context, card *model.TransportCard) error
	Update(ctx context.Context, card *model.TransportCard) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TransportCard, error)
	FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*model.TransportCard, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error
	// WithTransaction executes fn against a transaction-scoped repository.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TransportCardRepository) error) error
}

type transportCardRepository struct {
	db *gorm.DB
}

// NewTransportCardRepository builds a GORM-backed repository.
func NewTransportCardRepository(db *gorm.DB) TransportCardRepository {
	return &transportCardRepository{db: db}
}

func (r *transportCardRepository) Create(ctx context.Context, card *model.TransportCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *transportCardRepository) Update(ctx context.Context, card *model.TransportCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *transportCardRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.TransportCard, error) {
	var card model.TransportCard
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByUserIDForUpdate fetches the card with a row-level lock so balance
// mutations in the same transaction cannot interleave.
func (r *transportCardRepository) FindByUserIDForUpdate(ctx context.Context, userID uuid.UUID) (*model.TransportCard, error) {
	var card model.TransportCard
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("user_id = ?", userID).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *transportCardRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.TransportCard{}).
		Where("id = ?", id).
		Update("balance", newBalance).Error
}

func (r *transportCardRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TransportCardRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &transportCardRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
