package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "CATALOG_CACHE_TTL_MINUTES", "EXPIRY_GRACE_SECONDS", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, time.Minute, cfg.ExpiryGrace)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("EXPIRY_POLL_SECONDS", "5")
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.ExpiryPollInterval)
	assert.Equal(t, 30, cfg.SubmitRatePerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "test:abc:questions", CacheKey.TestQuestionsKey("abc"))
	assert.Equal(t, "attempt:xyz:draft", CacheKey.AttemptDraftKey("xyz"))
	assert.Equal(t, "attempts:deadlines", CacheKey.AttemptDeadlinesKey())
}
