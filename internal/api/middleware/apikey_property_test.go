package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/luo-one/inbox-agent/internal/database"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/luo-one/inbox-agent/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter(keys *APIKeyManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyMiddleware(keys))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func requestWithKey(router http.Handler, key string) int {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestProperty_APIKeyAuthentication(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	keys, err := NewAPIKeyManager(t.TempDir())
	require.NoError(t, err)
	router := newGuardedRouter(keys)
	validKey := keys.GetCurrentKey()

	properties.Property("only_the_active_key_is_accepted", prop.ForAll(
		func(key string) bool {
			code := requestWithKey(router, key)
			if key == validKey {
				return code == http.StatusOK
			}
			return code == http.StatusUnauthorized
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)

	assert.Equal(t, http.StatusOK, requestWithKey(router, validKey))
	assert.Equal(t, http.StatusUnauthorized, requestWithKey(router, ""))
}

func TestProperty_ResetInvalidatesPreviousKey(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	keys, err := NewAPIKeyManager(t.TempDir())
	require.NoError(t, err)
	router := newGuardedRouter(keys)
	hexKey := regexp.MustCompile(`^[0-9a-f]{64}$`)

	properties.Property("reset_rotates_key", prop.ForAll(
		func(_ int) bool {
			old := keys.GetCurrentKey()
			fresh, err := keys.ResetKey()
			if err != nil {
				return false
			}
			return fresh != old &&
				hexKey.MatchString(fresh) &&
				requestWithKey(router, old) == http.StatusUnauthorized &&
				requestWithKey(router, fresh) == http.StatusOK
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestAPIKeyPersistsAcrossManagers(t *testing.T) {
	dir := t.TempDir()

	first, err := NewAPIKeyManager(dir)
	require.NoError(t, err)
	second, err := NewAPIKeyManager(dir)
	require.NoError(t, err)
	assert.Equal(t, first.GetCurrentKey(), second.GetCurrentKey())

	info, err := os.Stat(filepath.Join(dir, "api_key.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(filepath.Join(t.TempDir(), "agent.db"))
	require.NoError(t, err)
	logService := services.NewLogService(db)
	logService.Logger().SetOutput(io.Discard)

	router := gin.New()
	router.Use(RequestLogger(logService))
	router.GET("/api/inbox/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/inbox/42", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	logs, err := logService.GetRecentLogs(5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(models.LogLevelWarn), logs[0].Level)
	assert.Equal(t, "GET /api/inbox/:id", logs[0].Message)
}
