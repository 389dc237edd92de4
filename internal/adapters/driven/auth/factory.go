package auth

import "github.com/custodia-labs/git-analyzer/internal/core/ports/driven"

// NewTokenProvider returns an EnvTokenProvider for envName, or a
// NullTokenProvider when no variable name is configured.
func NewTokenProvider(envName string) driven.TokenProvider {
	if envName == "" {
		return NewNullTokenProvider()
	}
	return NewEnvTokenProvider(envName)
}
