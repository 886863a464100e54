package repository

import (
	"context"

	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id uint) (*model.Document, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Document, error)
	// DeleteOwned deletes the document only if ownerID owns it and returns the rows removed
	DeleteOwned(ctx context.Context, id, ownerID uint) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		logger.Error("Failed to create document in database", err, map[string]interface{}{
			"owner_id":    doc.OwnerID,
			"storage_key": doc.StorageKey,
		})
		return err
	}

	logger.Debug("Document created in database", map[string]interface{}{
		"document_id": doc.ID,
		"owner_id":    doc.OwnerID,
	})
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		logFindError("Failed to find document in database", err, map[string]interface{}{
			"document_id": id,
		})
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&docs).Error
	if err != nil {
		logger.Error("Failed to list documents in database", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) DeleteOwned(ctx context.Context, id, ownerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Document{})
	if result.Error != nil {
		logger.Error("Failed to delete document from database", result.Error, map[string]interface{}{
			"document_id": id,
			"owner_id":    ownerID,
		})
		return 0, result.Error
	}

	logger.Debug("Document delete executed", map[string]interface{}{
		"document_id": id,
		"owner_id":    ownerID,
		"deleted":     result.RowsAffected,
	})
	return result.RowsAffected, nil
}
