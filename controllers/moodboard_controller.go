package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/mememates/middleware"
	"github.com/cppla/mememates/models"
	"github.com/cppla/mememates/moodboard"
	"github.com/cppla/mememates/repository"
	"github.com/cppla/mememates/utils"
	"github.com/cppla/mememates/validators"
)

const moodBoardCacheTTL = 10 * time.Minute

// MoodBoardController exposes the curated gallery and the per user item collection.
type MoodBoardController struct {
	entries repository.MoodBoardRepository
}

// NewMoodBoardController creates a MoodBoardController.
func NewMoodBoardController(entries repository.MoodBoardRepository) *MoodBoardController {
	return &MoodBoardController{entries: entries}
}

func moodBoardCacheKey(userID uint) string {
	return fmt.Sprintf("cache:moodboard:user:%d", userID)
}

// Gallery returns the seed images.
func (m *MoodBoardController) Gallery(ctx *gin.Context) {
	utils.Success(ctx, "", gin.H{"gallery": moodboard.Gallery()})
}

// List returns the caller's items oldest first.
func (m *MoodBoardController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	key := moodBoardCacheKey(userID)
	var items []models.MoodBoardEntry
	if !utils.CacheGetJSON(key, &items) {
		var err error
		items, err = m.entries.List(ctx.Request.Context(), userID)
		if err != nil {
			utils.Logger.Error("list mood board failed", zap.Uint("user_id", userID), zap.Error(err))
			internalError(ctx)
			return
		}
		utils.CacheSetJSON(key, items, moodBoardCacheTTL)
	}

	utils.Success(ctx, "", gin.H{"items": items})
}

// Append stores one item. Posting an id that is already stored returns the stored entry with 200.
func (m *MoodBoardController) Append(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req validators.MoodBoardItemRequest
	if !bindJSON(ctx, &req) {
		return
	}
	req, err := validators.ValidateMoodBoardItem(req)
	if respondInvalid(ctx, err) {
		return
	}

	entry := models.MoodBoardEntry{
		UserID:   userID,
		ItemID:   req.ID,
		Kind:     req.Type,
		Content:  req.Content,
		Caption:  req.Caption,
		Category: req.Category,
	}
	err = m.entries.Append(ctx.Request.Context(), &entry)
	if errors.Is(err, repository.ErrDuplicateItem) {
		existing, getErr := m.entries.Get(ctx.Request.Context(), userID, req.ID)
		if getErr != nil {
			utils.Logger.Error("load duplicate mood board item failed", zap.Error(getErr))
			internalError(ctx)
			return
		}
		utils.Success(ctx, "Item already saved", gin.H{"item": existing})
		return
	}
	if err != nil {
		utils.Logger.Error("append mood board item failed", zap.Uint("user_id", userID), zap.Error(err))
		internalError(ctx)
		return
	}

	utils.CacheDelete(moodBoardCacheKey(userID))
	utils.Respond(ctx, http.StatusCreated, true, "Item saved", gin.H{"item": entry})
}
