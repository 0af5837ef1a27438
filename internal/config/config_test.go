package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "3000")
	t.Setenv("ANALYST_TIMEOUT_MS", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Analyst.Timeout)
	assert.Equal(t, time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, "ALL", cfg.Feedback.SharedUsername)
	assert.Equal(t, "FR", cfg.Feedback.DefaultLang)
	assert.Equal(t, 6, cfg.Feedback.KeyQuestionLimit)
	assert.Equal(t, 4, cfg.Feedback.PopularQuestionLimit)
	assert.Equal(t, "X-Remote-User", cfg.Auth.IdentityHeader)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ANALYST_TIMEOUT_MS", "1500")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("POPULAR_QUESTION_LIMIT", "10")
	t.Setenv("RENDER_MAX_ROWS", "not-a-number")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Analyst.Timeout)
	assert.Equal(t, "redis", cfg.App.SessionStore)
	assert.Equal(t, 15*time.Minute, cfg.App.SessionTTL)
	assert.Equal(t, 10, cfg.Feedback.PopularQuestionLimit)
	assert.Equal(t, 1000, cfg.Render.MaxPreviewRows)
	assert.True(t, cfg.Tracing.Enabled)
}
