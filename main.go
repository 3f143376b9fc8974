package main

import (
	"github.com/cppla/mememates/config"
	"github.com/cppla/mememates/models"
	"github.com/cppla/mememates/routes"
	"github.com/cppla/mememates/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.UploadedFile{}, &models.MoodBoardEntry{})

	if !cfg.TelegramConfigured() {
		utils.Sugar.Warn("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set, /api/send-telegram-message will answer 500")
	}

	r, err := routes.SetupRouter(cfg, db)
	if err != nil {
		utils.Sugar.Fatalf("router setup failed: %v", err)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
