package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/mememates/models"
)

// UploadRepository records stored uploads.
type UploadRepository interface {
	Record(ctx context.Context, file *models.UploadedFile) error
}

// GormUploadRepository implements UploadRepository with gorm.
type GormUploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository creates a gorm backed UploadRepository.
func NewUploadRepository(db *gorm.DB) *GormUploadRepository {
	return &GormUploadRepository{db: db}
}

// Record inserts the descriptor of a stored file.
func (r *GormUploadRepository) Record(ctx context.Context, file *models.UploadedFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}
