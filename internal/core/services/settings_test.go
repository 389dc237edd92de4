package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/git-analyzer/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("data.root", "/srv/commits")
	_ = store.Set("download.mode", "sequential")
	_ = store.Set("download.concurrency", int64(16))
	_ = store.Set("api.requests_per_second", 2.5)
	_ = store.Set("api.base_url", "https://ghe.example.com/api/v3/")
	_ = store.Set("api.token_env", "GITHUB_TOKEN")
	_ = store.Set("api.timeout_seconds", 90)

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "/srv/commits", settings.DataRoot)
	assert.Equal(t, domain.ModeSequential, settings.Mode)
	assert.Equal(t, 16, settings.Concurrency)
	assert.InDelta(t, 2.5, settings.RequestsPerSecond, 1e-9)
	assert.Equal(t, "https://ghe.example.com/api/v3/", settings.APIBaseURL)
	assert.Equal(t, "GITHUB_TOKEN", settings.TokenEnv)
	assert.Equal(t, 90*time.Second, settings.Timeout)
}

func TestSettingsService_Get_InvalidModeReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("download.mode", "parallel")

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMode, settings.Mode)
}

func TestSettingsService_Get_ZeroRequestsPerSecondIsKept(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("api.requests_per_second", 0)

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.RequestsPerSecond)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Mode = domain.ModeSequential
	settings.Concurrency = 2
	settings.Timeout = 45 * time.Second

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "sequential", store.GetString("download.mode"))
	assert.Equal(t, 2, store.GetInt("download.concurrency"))
	assert.Equal(t, 45, store.GetInt("api.timeout_seconds"))

	reloaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *reloaded)
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Concurrency = 0

	err := service.Save(&settings)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.Save(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{"data.root", "/tmp/out", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "/tmp/out", s.DataRoot)
		}},
		{"download.mode", "Sequential", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.ModeSequential, s.Mode)
		}},
		{"download.concurrency", "3", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 3, s.Concurrency)
		}},
		{"api.requests_per_second", "0.5", func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 0.5, s.RequestsPerSecond, 1e-9)
		}},
		{"api.base_url", "http://localhost:8080/", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "http://localhost:8080/", s.APIBaseURL)
		}},
		{"api.token_env", "MY_TOKEN", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "MY_TOKEN", s.TokenEnv)
		}},
		{"api.timeout_seconds", "5", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 5*time.Second, s.Timeout)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			require.NoError(t, service.Set(tt.key, tt.value))

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Set_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"bad mode", "download.mode", "parallel"},
		{"non-numeric concurrency", "download.concurrency", "many"},
		{"zero concurrency", "download.concurrency", "0"},
		{"non-numeric rate", "api.requests_per_second", "fast"},
		{"non-numeric timeout", "api.timeout_seconds", "soon"},
		{"empty data root", "data.root", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 7)
	assert.Equal(t, "data.root", keys[0])
	assert.Contains(t, keys, "api.token_env")
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}
