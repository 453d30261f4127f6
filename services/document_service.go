package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"legajo_app_go/models"

	"gorm.io/gorm"
)

// Document-related errors
var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrStorageNotReady     = errors.New("storage provider not initialized")
)

// MaxDocumentSize limits uploads to 10MB
const MaxDocumentSize = 10 * 1024 * 1024

// UploadPersonDocument stores the file and records it in the person's dossier
func UploadPersonDocument(db *gorm.DB, actor models.AuthenticatedActor, personID, tipoCodigo string, file *multipart.FileHeader) (*models.PersonDocument, error) {
	if !models.IsValidDocumentType(tipoCodigo) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentType, tipoCodigo)
	}
	if file.Size > MaxDocumentSize {
		return nil, &ValidationError{Violations: []FieldViolation{
			{"file", "el archivo supera el tamaño máximo de 10MB"},
		}}
	}
	if Storage == nil {
		return nil, ErrStorageNotReady
	}

	var person models.Person
	if err := db.First(&person, "id = ?", personID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	key := GeneratePersonDocumentKey(personID, tipoCodigo, file.Filename)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := Storage.Upload(ctx, file, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	var uploadedByID *string
	if actor.UserID != "" {
		id := actor.UserID
		uploadedByID = &id
	}

	doc := &models.PersonDocument{
		PersonID:         personID,
		TipoCodigo:       tipoCodigo,
		FileKey:          result.Key,
		FileName:         result.FileName,
		FileOriginalName: file.Filename,
		FileSize:         result.FileSize,
		MimeType:         result.MimeType,
		UploadedByID:     uploadedByID,
	}
	if err := db.Create(doc).Error; err != nil {
		// Orphaned object cleanup, best effort
		_ = Storage.Delete(ctx, result.Key)
		return nil, err
	}

	return doc, nil
}

// ListPersonDocuments returns the dossier files, newest first
func ListPersonDocuments(db *gorm.DB, personID string) ([]models.PersonDocument, error) {
	var docs []models.PersonDocument
	err := db.Where("person_id = ?", personID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// GetDocumentContent streams the stored file back to the caller
func GetDocumentContent(db *gorm.DB, personID, documentID string) (io.ReadCloser, *models.PersonDocument, error) {
	var doc models.PersonDocument
	err := db.First(&doc, "id = ? AND person_id = ?", documentID, personID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	if Storage == nil {
		return nil, nil, ErrStorageNotReady
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reader, contentType, err := Storage.Get(ctx, doc.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}
	if doc.MimeType == "" {
		doc.MimeType = contentType
	}
	return reader, &doc, nil
}

// DeletePersonDocument removes the record and the stored file
func DeletePersonDocument(db *gorm.DB, personID, documentID string) error {
	var doc models.PersonDocument
	err := db.First(&doc, "id = ? AND person_id = ?", documentID, personID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	if err := db.Delete(&doc).Error; err != nil {
		return err
	}

	if Storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := Storage.Delete(ctx, doc.FileKey); err != nil {
			// Row is gone, file cleanup failed. Log and move on.
			log.Printf("[WARNING] failed to delete stored file %s: %v", doc.FileKey, err)
		}
	}
	return nil
}
