package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/mememates/config"
	"github.com/cppla/mememates/validators"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGenerateAndParseToken(t *testing.T) {
	config.Set(config.AppConfig{JWTSecret: "unit-secret"})

	token, err := GenerateToken(7, "ann", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ann", claims.Username)
	assert.Equal(t, "7", claims.Subject)

	expired, err := GenerateToken(7, "ann", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	BurnPasswordCheck("anything")
}

func TestStoredFilename(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	name := StoredFilename("Holiday Photo.JPEG", now)
	assert.Regexp(t, regexp.MustCompile(`^1700000000123-\d{1,9}\.jpeg$`), name)

	assert.Regexp(t, `^1700000000123-\d{1,9}$`, StoredFilename("noext", now))
	assert.Regexp(t, `^1700000000123-\d{1,9}\.png$`, StoredFilename("../../etc/x.png", now))
}

func TestRespondEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Respond(ctx, http.StatusCreated, true, "done", gin.H{"file": gin.H{"id": "1"}, "success": false})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
	assert.Contains(t, body, "file")
}

func TestFailAndValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	Fail(ctx, http.StatusUnauthorized, "Invalid username or password")
	assert.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, w.Body.String())

	w = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(w)
	ValidationFailed(ctx, []validators.FieldError{{Field: "name", Message: "Name is required"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"errors":[{"field":"name","message":"Name is required"}]}`, w.Body.String())
}

func TestRecoveryWithZap(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithZap(Logger, true))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"An unexpected error occurred"}`, w.Body.String())
}

func TestCacheDisabledWithoutRedis(t *testing.T) {
	config.Set(config.AppConfig{JWTSecret: "unit-secret"})
	var out []string
	assert.False(t, CacheGetJSON("cache:missing", &out))
	CacheSetJSON("cache:missing", []string{"a"}, time.Minute)
	CacheDelete("cache:missing")
}

func TestRegistrationGuardsOpenWithoutRedis(t *testing.T) {
	config.Set(config.AppConfig{JWTSecret: "unit-secret", RegisterCooldownSec: 60, RegisterMaxPerIPPerDay: 1})
	assert.True(t, RegistrationCooldownTry("10.0.0.1"))
	assert.True(t, RegistrationCooldownTry("10.0.0.1"))
	RegistrationCooldownClear("10.0.0.1")
	RegistrationDailyIncrement("10.0.0.1")
	assert.True(t, RegistrationDailyLimitCheck("10.0.0.1"))
}
