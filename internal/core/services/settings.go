package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataRoot          = "data.root"
	keyMode              = "download.mode"
	keyConcurrency       = "download.concurrency"
	keyRequestsPerSecond = "api.requests_per_second"
	keyAPIBaseURL        = "api.base_url"
	keyTokenEnv          = "api.token_env"
	keyTimeoutSeconds    = "api.timeout_seconds"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		DataRoot:          s.getString(keyDataRoot, defaults.DataRoot),
		Mode:              s.getMode(defaults.Mode),
		Concurrency:       s.getInt(keyConcurrency, defaults.Concurrency),
		RequestsPerSecond: s.getFloat(keyRequestsPerSecond, defaults.RequestsPerSecond),
		APIBaseURL:        s.getString(keyAPIBaseURL, defaults.APIBaseURL),
		TokenEnv:          s.getString(keyTokenEnv, defaults.TokenEnv),
		Timeout:           time.Duration(s.getInt(keyTimeoutSeconds, int(defaults.Timeout/time.Second))) * time.Second,
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyDataRoot, settings.DataRoot},
		{keyMode, settings.Mode.String()},
		{keyConcurrency, settings.Concurrency},
		{keyRequestsPerSecond, settings.RequestsPerSecond},
		{keyAPIBaseURL, settings.APIBaseURL},
		{keyTokenEnv, settings.TokenEnv},
		{keyTimeoutSeconds, int(settings.Timeout / time.Second)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set parses value for key and saves the resulting settings.
//
//nolint:gocyclo // One case per setting key
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case keyDataRoot:
		settings.DataRoot = value
	case keyMode:
		mode := domain.SchedulingMode(strings.ToLower(value))
		if !mode.IsValid() {
			return fmt.Errorf("%w: unknown download mode %q (want %s or %s)",
				domain.ErrInvalidInput, value, domain.ModeSequential, domain.ModeConcurrent)
		}
		settings.Mode = mode
	case keyConcurrency:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Concurrency = n
	case keyRequestsPerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.RequestsPerSecond = f
	case keyAPIBaseURL:
		settings.APIBaseURL = value
	case keyTokenEnv:
		settings.TokenEnv = value
	case keyTimeoutSeconds:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Timeout = time.Duration(n) * time.Second
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyDataRoot,
		keyMode,
		keyConcurrency,
		keyRequestsPerSecond,
		keyAPIBaseURL,
		keyTokenEnv,
		keyTimeoutSeconds,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat keeps an explicit zero, which disables request spacing.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getMode(defaultVal domain.SchedulingMode) domain.SchedulingMode {
	val := s.configStore.GetString(keyMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.SchedulingMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
