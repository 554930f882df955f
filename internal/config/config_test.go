package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "API_BASE_URL", "TICK_INTERVAL_MS", "SUBMIT_RATE_PER_MINUTE", "ALLOWED_ORIGINS", "REDIS_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8090", cfg.ServerPort)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 10, cfg.SubmitRatePerMinute)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://exam.local/api/")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "-3")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "http://exam.local/api", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 10, cfg.SubmitRatePerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestChannelKeys(t *testing.T) {
	assert.Equal(t, "candidate:session:abc:monitor", ChannelKey.SessionMonitorChannel("abc"))
	assert.Equal(t, "candidate:monitor", ChannelKey.MonitorFeedChannel())
}
