package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		input    string
		expected DocumentType
	}{
		{"ID", DocumentTypeID},
		{"rg", DocumentTypeID},
		{"Identidade", DocumentTypeID},
		{"carteira de identidade", DocumentTypeID},
		{"CPF", DocumentTypeCPF},
		{"cadastro-de-pessoa-fisica", DocumentTypeCPF},
		{"CNH", DocumentTypeDrivingLicense},
		{"carteira nacional de habilitacao", DocumentTypeDrivingLicense},
		{"driving_license", DocumentTypeDrivingLicense},
		{"Passaporte", DocumentTypePassport},
		{"PASSPORT", DocumentTypePassport},
		{"passport ", DocumentTypePassport},
		{"outro", DocumentTypeOther},
		{"OTHER", DocumentTypeOther},
		{"", DocumentTypeOther},
		{"utility bill", DocumentTypeOther},
		{"???", DocumentTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDocumentType(tt.input))
		})
	}
}
