package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/mememates/config"
	"github.com/cppla/mememates/controllers"
	"github.com/cppla/mememates/middleware"
	"github.com/cppla/mememates/relay"
	"github.com/cppla/mememates/repository"
	"github.com/cppla/mememates/services"
	"github.com/cppla/mememates/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, db *gorm.DB) (*gin.Engine, error) {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	uploader, err := services.NewUploader(cfg.UploadDir, repository.NewUploadRepository(db))
	if err != nil {
		return nil, err
	}

	r := gin.New()
	// Access log and panic recovery go to their own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		utils.Sugar.Warnf("gin access log disabled: %v", err)
		r.Use(utils.RecoveryWithZap(utils.Logger, false))
	}
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	r.Use(cors.New(corsCfg))

	healthController := controllers.NewHealthController(db)
	authController := controllers.NewAuthController(repository.NewUserRepository(db))
	contactController := controllers.NewContactController()
	uploadController := controllers.NewUploadController(uploader)
	telegramController := controllers.NewTelegramController(relay.NewTelegram(cfg))
	moodBoardController := controllers.NewMoodBoardController(repository.NewMoodBoardRepository(db))

	r.GET("/health", healthController.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/uploads/:name", uploadController.Serve)
	r.HEAD("/uploads/:name", uploadController.Serve)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	api.POST("/contact", contactController.Submit)
	api.POST("/login", authController.Login)
	api.POST("/register", authController.Register)
	api.POST("/upload", uploadController.Upload)
	api.POST("/send-telegram-message", telegramController.Send)

	board := api.Group("/moodboard")
	board.GET("/gallery", moodBoardController.Gallery)
	board.GET("/items", middleware.AuthRequired(), moodBoardController.List)
	board.POST("/items", middleware.AuthRequired(), moodBoardController.Append)

	staticDir := cfg.StaticDir
	r.NoRoute(func(ctx *gin.Context) {
		p := ctx.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || p == "/api" {
			utils.Fail(ctx, http.StatusNotFound, "API route not found")
			return
		}
		if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
			utils.Fail(ctx, http.StatusNotFound, "Not found")
			return
		}
		// built assets first, then the single page entry for client side routes
		if file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+p))); isRegularFile(file) {
			ctx.File(file)
			return
		}
		index := filepath.Join(staticDir, "index.html")
		if !isRegularFile(index) {
			utils.Fail(ctx, http.StatusNotFound, "Not found")
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File(index)
	})

	return r, nil
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
