package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/mememates/utils"
)

// HealthController reports liveness and database reachability.
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates a HealthController.
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health pings the database.
func (h *HealthController) Health(ctx *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		utils.Respond(ctx, http.StatusServiceUnavailable, false, "Database unavailable", gin.H{"status": "degraded"})
		return
	}
	utils.Success(ctx, "", gin.H{"status": "ok"})
}
