package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Store.TxTimeout)
	assert.Equal(t, 5, cfg.Announcement.NearlySoldOutMax)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.Telemetry.Endpoint)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CONFCENTRAL_ADDR", ":9090")
	t.Setenv("CONFCENTRAL_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CONFCENTRAL_ANNOUNCEMENT_INTERVAL", "15m")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.Announcement.RefreshInterval)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	t.Run("unparseable duration", func(t *testing.T) {
		t.Setenv("CONFCENTRAL_TX_TIMEOUT", "soon")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("non-positive threshold", func(t *testing.T) {
		t.Setenv("CONFCENTRAL_NEARLY_SOLD_OUT_SEATS", "0")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
