package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("CAMPANA_SESSION_SECRET", "Abc123!Abc123!Abc123!Abc123!Abc123!")
		t.Setenv("CAMPANA_SERVER_PORT", "9090")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.ServerPort)
		assert.Equal(t, "localhost:9090", cfg.ServerAddr())
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("short secret rejected", func(t *testing.T) {
		t.Setenv("CAMPANA_SESSION_SECRET", "too-short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("known weak secret rejected", func(t *testing.T) {
		t.Setenv("CAMPANA_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("seed requires admin password", func(t *testing.T) {
		t.Setenv("CAMPANA_SESSION_SECRET", "Abc123!Abc123!Abc123!Abc123!Abc123!")
		t.Setenv("CAMPANA_DO_SEED", "true")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestUseRedisCache(t *testing.T) {
	cfg := Config{}
	assert.False(t, cfg.UseRedisCache())
	cfg.RedisURL = "redis://localhost:6379"
	assert.True(t, cfg.UseRedisCache())
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaAAAAAAAA", false},
		{"aaaaAAAA00001111", true},
		{"Abc123!xyz", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasMinimumEntropy(tt.secret), "secret %q", tt.secret)
	}
}
