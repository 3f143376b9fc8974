package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via the config file or the environment.
type AppConfig struct {
	AppPort            string   `json:"AppPort" env:"APP_PORT"`
	JWTSecret          string   `json:"JWTSecret" env:"JWT_SECRET"`
	RateLimitPerMinute int      `json:"RateLimitPerMinute" env:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `json:"AllowedOrigins" env:"CORS_ALLOWED_ORIGINS"`
	StaticDir          string   `json:"StaticDir" env:"STATIC_DIR"`
	// Gin framework configuration
	GinMode string `json:"GinMode" env:"GIN_MODE"`
	GinPath string `json:"GinPath" env:"GIN_PATH"`
	// Database: mysql for deployments, sqlite for local runs
	DBDriver    string `json:"DBDriver" env:"DB_DRIVER"`
	DatabaseURI string `json:"DatabaseURI" env:"DATABASE_URI"`
	DBHost      string `json:"DBHost" env:"DB_HOST"`
	DBPort      string `json:"DBPort" env:"DB_PORT"`
	DBUser      string `json:"DBUser" env:"DB_USER"`
	DBPassword  string `json:"DBPassword" env:"DB_PASSWORD"`
	DBName      string `json:"DBName" env:"DB_NAME"`
	DBPath      string `json:"DBPath" env:"DB_PATH"`
	// Redis for caching; optional
	RedisEnabled  bool   `json:"RedisEnabled" env:"REDIS_ENABLED"`
	RedisHost     string `json:"RedisHost" env:"REDIS_HOST"`
	RedisPort     int    `json:"RedisPort" env:"REDIS_PORT"`
	RedisDB       int    `json:"RedisDB" env:"REDIS_DB"`
	RedisPassword string `json:"RedisPassword" env:"REDIS_PASSWORD"`
	// Logging configuration
	LogLevel      string `json:"LogLevel" env:"LOG_LEVEL"`
	LogPath       string `json:"LogPath" env:"LOG_PATH"`
	LogMaxSizeMB  int    `json:"LogMaxSizeMB" env:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `json:"LogMaxBackups" env:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `json:"LogMaxAgeDays" env:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `json:"LogCompress" env:"LOG_COMPRESS"`
	// Registration abuse limits, enforced only when Redis is enabled; 0 disables
	RegisterCooldownSec    int `json:"RegisterCooldownSec" env:"REGISTER_COOLDOWN_SEC"`
	RegisterMaxPerIPPerDay int `json:"RegisterMaxPerIPPerDay" env:"REGISTER_MAX_PER_IP_PER_DAY"`
	// Uploads
	UploadDir string `json:"UploadDir" env:"UPLOAD_DIR"`
	// Telegram relay
	TelegramBotToken   string `json:"TelegramBotToken" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID     string `json:"TelegramChatID" env:"TELEGRAM_CHAT_ID"`
	TelegramAPIURL     string `json:"TelegramAPIURL" env:"TELEGRAM_API_URL"`
	TelegramTimeoutSec int    `json:"TelegramTimeoutSec" env:"TELEGRAM_TIMEOUT_SEC"`
}

// configSections are the grouped keys accepted in config.json. Each section uses the same
// key names as the flat form, so {"redis": {"RedisHost": "..."}} and {"RedisHost": "..."} are equivalent.
var configSections = []string{"app", "gin", "database", "redis", "log", "register", "upload", "telegram"}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.RWMutex
)

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	var c AppConfig
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &c); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	applyDefaults(&c)
	if err := applyEnvOverrides(&c); err != nil {
		log.Fatalf("invalid environment configuration: %v", err)
	}

	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.RLock()
	if loaded {
		defer mu.RUnlock()
		return cfg
	}
	mu.RUnlock()
	return Load()
}

// Set replaces the cached configuration. Defaults are applied to zero-value fields.
func Set(c AppConfig) AppConfig {
	applyDefaults(&c)
	mu.Lock()
	cfg = c
	loaded = true
	mu.Unlock()
	return c
}

// loadJSONConfig reads the JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return parseJSONConfig(data, out)
}

func parseJSONConfig(data []byte, out *AppConfig) error {
	// flat keys first
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, name := range configSections {
		section, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(section, out); err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "mememates"
	}
	if c.DBPath == "" {
		c.DBPath = "data/mememates.db"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.TelegramAPIURL == "" {
		c.TelegramAPIURL = "https://api.telegram.org"
	}
	if c.TelegramTimeoutSec == 0 {
		c.TelegramTimeoutSec = 10
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.AllowedOrigins = trimList(c.AllowedOrigins)
	return nil
}

func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// TelegramConfigured reports whether both relay credentials are present.
func (c AppConfig) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}
