package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// APIKeyHeader carries the key on every /api request
	APIKeyHeader = "X-API-Key"
	// APIKeyLength is the number of random bytes in a key (64 hex chars)
	APIKeyLength = 32

	apiKeyFileName = "api_key.txt"
)

// APIKeyManager owns the single shared key guarding the HTTP API. The key is
// kept in the data directory so the CLI and the server agree on it.
type APIKeyManager struct {
	mu      sync.RWMutex
	path    string
	current string
}

// NewAPIKeyManager loads the key from dataDir, generating one on first use
func NewAPIKeyManager(dataDir string) (*APIKeyManager, error) {
	m := &APIKeyManager{path: filepath.Join(dataDir, apiKeyFileName)}

	data, err := os.ReadFile(m.path)
	if err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			m.current = key
			return m, nil
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read api key: %w", err)
	}

	if _, err := m.ResetKey(); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the key file location
func (m *APIKeyManager) Path() string {
	return m.path
}

// GetCurrentKey returns the active key
func (m *APIKeyManager) GetCurrentKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// ValidateKey reports whether key matches the active key in constant time
func (m *APIKeyManager) ValidateKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(m.current), []byte(key)) == 1
}

// ResetKey replaces the key; the previous one stops working immediately
func (m *APIKeyManager) ResetKey() (string, error) {
	buf := make([]byte, APIKeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	key := hex.EncodeToString(buf)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(m.path, []byte(key), 0600); err != nil {
		return "", err
	}
	m.current = key
	return key, nil
}

// APIKeyMiddleware rejects requests without the active key
func APIKeyMiddleware(keys *APIKeyManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			abortUnauthorized(c, "API key is required")
			return
		}
		if !keys.ValidateKey(key) {
			abortUnauthorized(c, "Invalid API key")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "AUTH_FAILED",
			"message": message,
		},
	})
}
