package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "fleetcheck", cfg.MongoDB)
	assert.Equal(t, "24h", cfg.JWTExpiry)
	assert.Equal(t, "", cfg.MQTTBroker)
	assert.False(t, cfg.LogJSON)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("MONGO_DB", "fleetcheck_test")
	t.Setenv("MQTT_BROKER", "tcp://localhost:1883")
	t.Setenv("LOG_JSON", "true")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "fleetcheck_test", cfg.MongoDB)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	assert.True(t, cfg.LogJSON)
}
