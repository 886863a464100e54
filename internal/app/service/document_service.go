package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/guard"
	"github.com/jobnest/jobnest-backend/internal/storage"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FileStorage is the object store behind applicant documents
type FileStorage interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*storage.PresignedUpload, error)
	Delete(ctx context.Context, key string) error
}

type CreateDocumentInput struct {
	ApplicantName string
	FileName      string
	ContentType   string
	Tags          []string
}

type DocumentService interface {
	CreateUpload(ctx context.Context, ownerID uint, input CreateDocumentInput) (*model.Document, *storage.PresignedUpload, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Document, error)
	// Delete removes a document only when the session identity owns it
	Delete(ctx context.Context, session *guard.Session, documentID uint) error
}

type documentService struct {
	docRepo repository.DocumentRepository
	files   FileStorage
}

func NewDocumentService(docRepo repository.DocumentRepository, files FileStorage) DocumentService {
	return &documentService{docRepo: docRepo, files: files}
}

func (s *documentService) CreateUpload(ctx context.Context, ownerID uint, input CreateDocumentInput) (*model.Document, *storage.PresignedUpload, error) {
	if err := storage.ValidateContentType(input.ContentType, storage.DocumentContentTypes); err != nil {
		logger.Warn("Document upload rejected", map[string]interface{}{
			"owner_id":     ownerID,
			"content_type": input.ContentType,
		})
		return nil, nil, ErrInvalidFileType
	}

	upload, err := s.files.PresignUpload(ctx, fmt.Sprintf("documents/%d", ownerID), input.FileName, input.ContentType)
	if err != nil {
		logger.Error("Failed to presign document upload", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, nil, err
	}

	doc := &model.Document{
		OwnerID:       ownerID,
		ApplicantName: input.ApplicantName,
		FileName:      input.FileName,
		ContentType:   input.ContentType,
		StorageKey:    upload.Key,
		FileURL:       upload.FileURL,
		Tags:          pq.StringArray(input.Tags),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, nil, storageError(err)
	}

	logger.Info("Document created", map[string]interface{}{
		"document_id": doc.ID,
		"owner_id":    ownerID,
	})
	return doc, upload, nil
}

func (s *documentService) ListByOwner(ctx context.Context, ownerID uint) ([]model.Document, error) {
	docs, err := s.docRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageError(err)
	}
	return docs, nil
}

func (s *documentService) Delete(ctx context.Context, session *guard.Session, documentID uint) error {
	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return storageError(err)
	}
	if !guard.IsOwner(session, doc.OwnerID) {
		fields := map[string]interface{}{
			"document_id": documentID,
			"owner_id":    doc.OwnerID,
		}
		if session != nil {
			fields["actor_id"] = session.UserID
		}
		logger.Warn("Document delete rejected: not the owner", fields)
		return ErrNotOwner
	}
	ownerID := session.UserID

	// the conditional delete keeps the owner binding even if ownership changed since the read
	n, err := s.docRepo.DeleteOwned(ctx, documentID, ownerID)
	if err != nil {
		return storageError(err)
	}
	if n == 0 {
		return ErrDocumentNotFound
	}

	if err := s.files.Delete(ctx, doc.StorageKey); err != nil {
		// metadata is gone; an orphaned object is only a storage cost
		logger.Error("Failed to delete document object", err, map[string]interface{}{
			"document_id": documentID,
			"storage_key": doc.StorageKey,
		})
	}

	logger.Info("Document deleted", map[string]interface{}{
		"document_id": documentID,
		"owner_id":    ownerID,
	})
	return nil
}
