package domain

import (
	"fmt"
	"time"
)

// SchedulingMode selects how a download issues its requests.
type SchedulingMode string

// Available scheduling modes.
const (
	// ModeSequential issues one request at a time.
	ModeSequential SchedulingMode = "sequential"

	// ModeConcurrent lists pages in parallel and fetches commit details
	// through a bounded worker set sharing one connection pool.
	ModeConcurrent SchedulingMode = "concurrent"
)

// IsValid returns true if the mode is recognised.
func (m SchedulingMode) IsValid() bool {
	switch m {
	case ModeSequential, ModeConcurrent:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SchedulingMode) String() string {
	return string(m)
}

// Defaults for AppSettings.
const (
	DefaultDataRoot          = "data"
	DefaultMode              = ModeConcurrent
	DefaultConcurrency       = 8
	DefaultRequestsPerSecond = 10.0
	DefaultAPIBaseURL        = "https://api.github.com/"
	DefaultTokenEnv          = "GH_TOKEN"
	DefaultTimeout           = 30 * time.Second
)

// AppSettings holds the tool configuration.
type AppSettings struct {
	// DataRoot is the directory holding one subdirectory per repository.
	DataRoot string

	Mode        SchedulingMode
	Concurrency int

	// RequestsPerSecond spaces outgoing API requests. Zero or less disables spacing.
	RequestsPerSecond float64

	APIBaseURL string

	// TokenEnv names the environment variable holding the API token.
	TokenEnv string

	Timeout time.Duration
}

// DefaultAppSettings returns settings with every default applied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		DataRoot:          DefaultDataRoot,
		Mode:              DefaultMode,
		Concurrency:       DefaultConcurrency,
		RequestsPerSecond: DefaultRequestsPerSecond,
		APIBaseURL:        DefaultAPIBaseURL,
		TokenEnv:          DefaultTokenEnv,
		Timeout:           DefaultTimeout,
	}
}

// Validate checks that the settings are usable.
func (s AppSettings) Validate() error {
	if s.DataRoot == "" {
		return fmt.Errorf("%w: data root is required", ErrInvalidInput)
	}
	if !s.Mode.IsValid() {
		return fmt.Errorf("%w: unknown download mode %q", ErrInvalidInput, s.Mode)
	}
	if s.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidInput, s.Concurrency)
	}
	if s.APIBaseURL == "" {
		return fmt.Errorf("%w: api base url is required", ErrInvalidInput)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidInput)
	}
	return nil
}
