package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/mememates/models"
)

// MoodBoardRepository is the append-only per-user mood board collection.
type MoodBoardRepository interface {
	Append(ctx context.Context, entry *models.MoodBoardEntry) error
	Get(ctx context.Context, userID uint, itemID string) (*models.MoodBoardEntry, error)
	List(ctx context.Context, userID uint) ([]models.MoodBoardEntry, error)
}

// GormMoodBoardRepository implements MoodBoardRepository with gorm.
type GormMoodBoardRepository struct {
	db *gorm.DB
}

// NewMoodBoardRepository creates a gorm backed MoodBoardRepository.
func NewMoodBoardRepository(db *gorm.DB) *GormMoodBoardRepository {
	return &GormMoodBoardRepository{db: db}
}

// Append stores a new entry; an item id already stored for the user yields ErrDuplicateItem.
func (r *GormMoodBoardRepository) Append(ctx context.Context, entry *models.MoodBoardEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateItem
		}
		return fmt.Errorf("append mood board entry: %w", err)
	}
	return nil
}

// Get returns a single entry or gorm.ErrRecordNotFound wrapped.
func (r *GormMoodBoardRepository) Get(ctx context.Context, userID uint, itemID string) (*models.MoodBoardEntry, error) {
	var entry models.MoodBoardEntry
	err := r.db.WithContext(ctx).Where("user_id = ? AND item_id = ?", userID, itemID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("mood board entry %s: %w", itemID, err)
		}
		return nil, fmt.Errorf("get mood board entry: %w", err)
	}
	return &entry, nil
}

// List returns the user's entries in insertion order, oldest first.
func (r *GormMoodBoardRepository) List(ctx context.Context, userID uint) ([]models.MoodBoardEntry, error) {
	entries := []models.MoodBoardEntry{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list mood board entries: %w", err)
	}
	return entries, nil
}
