package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentType is the closed set of supported document kinds.
type DocumentType string

const (
	DocumentTypeID             DocumentType = "ID"
	DocumentTypeCPF            DocumentType = "CPF"
	DocumentTypePassport       DocumentType = "PASSPORT"
	DocumentTypeDrivingLicense DocumentType = "DRIVING_LICENSE"
	DocumentTypeOther          DocumentType = "OTHER"
)

// documentTypeAliases maps normalized free-text spellings to the closed set.
var documentTypeAliases = map[string]DocumentType{
	"ID":                               DocumentTypeID,
	"RG":                               DocumentTypeID,
	"IDENTIDADE":                       DocumentTypeID,
	"CARTEIRA_DE_IDENTIDADE":           DocumentTypeID,
	"CPF":                              DocumentTypeCPF,
	"CADASTRO_DE_PESSOA_FISICA":        DocumentTypeCPF,
	"CNH":                              DocumentTypeDrivingLicense,
	"CARTEIRA_NACIONAL_DE_HABILITACAO": DocumentTypeDrivingLicense,
	"DRIVING_LICENSE":                  DocumentTypeDrivingLicense,
	"PASSAPORTE":                       DocumentTypePassport,
	"PASSPORT":                         DocumentTypePassport,
	"OUTRO":                            DocumentTypeOther,
	"OTHER":                            DocumentTypeOther,
}

// ParseDocumentType normalizes a free-text document type into the closed
// set, defaulting to OTHER when nothing matches.
func ParseDocumentType(value string) DocumentType {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if t, ok := documentTypeAliases[normalized]; ok {
		return t
	}
	return DocumentTypeOther
}

// Document represents an uploaded document owned by a single user.
type Document struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index"`
	Type      DocumentType   `json:"document_type" gorm:"size:32;not null"`
	FilePath  string         `json:"-" gorm:"size:512;not null"` // Relative to the storage root
	Name      string         `json:"name" gorm:"size:255;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
