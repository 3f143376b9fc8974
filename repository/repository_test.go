package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/mememates/config"
	"github.com/cppla/mememates/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.AppConfig{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "repo.db"),
		LogLevel: "silent",
	}
	db, err := config.OpenDatabase(cfg, &models.User{}, &models.UploadedFile{}, &models.MoodBoardEntry{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "ann")
	assert.ErrorIs(t, err, ErrUserNotFound)

	user := &models.User{Username: "ann", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	got, err := repo.GetByUsername(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "ann", PasswordHash: "a"}))
	err := repo.Create(ctx, &models.User{Username: "ann", PasswordHash: "b"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUserRepository_ConcurrentRegistrationKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Create(ctx, &models.User{Username: "race", PasswordHash: "x"})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateUsername)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "race").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMoodBoardRepository(t *testing.T) {
	repo := NewMoodBoardRepository(newTestDB(t))
	ctx := context.Background()

	first := &models.MoodBoardEntry{UserID: 1, ItemID: "100", Kind: models.ItemKindEmoji, Content: "🎉", Caption: "Party"}
	second := &models.MoodBoardEntry{UserID: 1, ItemID: "101", Kind: models.ItemKindText, Content: "note", Category: "Notes"}
	other := &models.MoodBoardEntry{UserID: 2, ItemID: "100", Kind: models.ItemKindText, Content: "someone else"}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, other))

	err := repo.Append(ctx, &models.MoodBoardEntry{UserID: 1, ItemID: "100", Kind: models.ItemKindText, Content: "dup"})
	assert.ErrorIs(t, err, ErrDuplicateItem)

	items, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "100", items[0].ItemID)
	assert.Equal(t, "101", items[1].ItemID)

	got, err := repo.Get(ctx, 1, "100")
	require.NoError(t, err)
	assert.Equal(t, "🎉", got.Content)

	_, err = repo.Get(ctx, 1, "999")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	empty, err := repo.List(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUploadRepository_Record(t *testing.T) {
	db := newTestDB(t)
	repo := NewUploadRepository(db)

	file := &models.UploadedFile{
		ID: "7b1c9c2e-0000-4000-8000-000000000001", Filename: "1-2.png", OriginalName: "cat.png",
		FilePath: "/tmp/1-2.png", URL: "/uploads/1-2.png", MimeType: "image/png", Size: 10, Category: models.FileCategoryImage,
	}
	require.NoError(t, repo.Record(context.Background(), file))

	var stored models.UploadedFile
	require.NoError(t, db.First(&stored, "id = ?", file.ID).Error)
	assert.Equal(t, "cat.png", stored.OriginalName)
	assert.Error(t, repo.Record(context.Background(), file))
}
