package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document type codes. The first three are the mandatory set the checklist
// counts; the rest are optional attachments.
const (
	DocumentTypeDNI       = "DNI"
	DocumentTypeCUIL      = "CUIL"
	DocumentTypeDomicilio = "DOM"
	DocumentTypeTitulo    = "TITULO"
	DocumentTypeOtro      = "OTRO"
)

// RequiredDocumentCodes returns the document-type codes every legajo must have
func RequiredDocumentCodes() []string {
	return []string{DocumentTypeDNI, DocumentTypeCUIL, DocumentTypeDomicilio}
}

// IsValidDocumentType checks if the document-type code is known
func IsValidDocumentType(code string) bool {
	validCodes := []string{
		DocumentTypeDNI,
		DocumentTypeCUIL,
		DocumentTypeDomicilio,
		DocumentTypeTitulo,
		DocumentTypeOtro,
	}
	for _, c := range validCodes {
		if c == code {
			return true
		}
	}
	return false
}

// PersonDocument is one uploaded file in the dossier, keyed by document-type code
type PersonDocument struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PersonID   string `gorm:"type:uuid;not null;index" json:"person_id"`
	TipoCodigo string `gorm:"not null;index" json:"tipo_codigo"`

	// Storage metadata
	FileKey          string `gorm:"not null" json:"-"`
	FileName         string `gorm:"not null" json:"file_name"`
	FileOriginalName string `json:"file_original_name"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `json:"mime_type"`

	UploadedByID *string `gorm:"type:uuid" json:"uploaded_by_id,omitempty"`

	Person Person `gorm:"foreignKey:PersonID" json:"-"`
}

func (d *PersonDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

func (PersonDocument) TableName() string {
	return "person_documents"
}
