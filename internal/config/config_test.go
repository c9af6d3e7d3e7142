package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("USDA_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, 10*time.Minute, cfg.NutritionCacheTTL)
	assert.Equal(t, 4*time.Second, cfg.NutritionTimeout)
	assert.False(t, cfg.RemoteNutritionEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USDA_API_KEY", "demo-key")
	t.Setenv("NUTRITION_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGINS", "http://localhost:8081; http://localhost:19006")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.RemoteNutritionEnabled())
	assert.Equal(t, 30*time.Second, cfg.NutritionCacheTTL)
	assert.Equal(t, []string{"http://localhost:8081", "http://localhost:19006"}, cfg.AllowedOrigins())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "sqlite needs no url",
			cfg:     Config{DatabaseType: "sqlite", NutritionCacheTTL: time.Minute, NutritionTimeout: time.Second},
			wantErr: false,
		},
		{
			name:    "postgres without url",
			cfg:     Config{DatabaseType: "postgres", NutritionCacheTTL: time.Minute, NutritionTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "zero cache ttl",
			cfg:     Config{DatabaseType: "sqlite", NutritionTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "zero timeout",
			cfg:     Config{DatabaseType: "sqlite", NutritionCacheTTL: time.Minute},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
