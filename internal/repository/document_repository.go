package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carteira/internal/model"
)

// DocumentRepository defines document persistence operations.
type DocumentRepository interface {
	Create(ctx context.Context, document *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]model.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository builds a GORM-backed repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *model.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var document model.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	var documents []model.Document
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error
}
