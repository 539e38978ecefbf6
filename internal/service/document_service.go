package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/repository"
	"carteira/internal/storage"
)

// DocumentService handles uploaded document lifecycle.
type DocumentService interface {
	Create(ctx context.Context, userID uuid.UUID, docType, name, filename string, content io.Reader) (*model.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error)
	Get(ctx context.Context, documentID, userID uuid.UUID) (*model.Document, error)
	Delete(ctx context.Context, documentID, userID uuid.UUID) error
}

type documentService struct {
	docRepo  repository.DocumentRepository
	userRepo repository.UserRepository
	storage  *storage.LocalStorage
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
	storage *storage.LocalStorage,
) DocumentService {
	return &documentService{
		docRepo:  docRepo,
		userRepo: userRepo,
		storage:  storage,
	}
}

func (s *documentService) requireUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return nil
}

// Create stores the file and persists the document record. The free-text
// type is normalized into the closed set, defaulting to OTHER.
func (s *documentService) Create(ctx context.Context, userID uuid.UUID, docType, name, filename string, content io.Reader) (*model.Document, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(userID, filename, content)
	if err != nil {
		return nil, err
	}

	document := &model.Document{
		UserID:   userID,
		Type:     model.ParseDocumentType(docType),
		FilePath: relPath,
		Name:     name,
	}
	if err := s.docRepo.Create(ctx, document); err != nil {
		// Do not leave an orphan file behind a failed insert.
		if rmErr := s.storage.Remove(relPath); rmErr != nil {
			log.Printf("remove orphan file %s: %v", relPath, rmErr)
		}
		return nil, fmt.Errorf("create document: %w", err)
	}
	return document, nil
}

// ListByUser returns the user's documents, newest first.
func (s *documentService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.docRepo.FindByUserID(ctx, userID)
}

// Get returns a document only to its owner. A foreign document is reported
// as not found rather than forbidden.
func (s *documentService) Get(ctx context.Context, documentID, userID uuid.UUID) (*model.Document, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	document, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if document.UserID != userID {
		return nil, apperrors.ErrDocumentNotFound
	}
	return document, nil
}

// Delete removes the document record, then the stored file best-effort.
func (s *documentService) Delete(ctx context.Context, documentID, userID uuid.UUID) error {
	document, err := s.Get(ctx, documentID, userID)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := s.storage.Remove(document.FilePath); err != nil {
		log.Printf("remove stored file %s: %v", document.FilePath, err)
	}
	return nil
}
