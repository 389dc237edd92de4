package auth

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
	"github.com/custodia-labs/git-analyzer/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// EnvTokenProvider reads a personal access token from an environment
// variable on every call, so a token exported mid-session is picked up.
type EnvTokenProvider struct {
	name   string
	lookup func(string) (string, bool)
}

// NewEnvTokenProvider creates a provider reading the variable name.
func NewEnvTokenProvider(name string) *EnvTokenProvider {
	return &EnvTokenProvider{
		name:   name,
		lookup: os.LookupEnv,
	}
}

// Name returns the environment variable name.
func (p *EnvTokenProvider) Name() string {
	return p.name
}

// GetToken returns the trimmed variable value, or "" when unset.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token(), nil
}

// AuthMethod returns AuthMethodPAT when a token is set.
func (p *EnvTokenProvider) AuthMethod() domain.AuthMethod {
	if p.token() == "" {
		return domain.AuthMethodNone
	}
	return domain.AuthMethodPAT
}

// IsAuthenticated returns true if the variable holds a token.
func (p *EnvTokenProvider) IsAuthenticated() bool {
	return p.token() != ""
}

func (p *EnvTokenProvider) token() string {
	if p.name == "" {
		return ""
	}
	v, ok := p.lookup(p.name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
