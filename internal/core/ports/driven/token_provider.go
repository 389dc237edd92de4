package driven

import (
	"context"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

// TokenProvider supplies the credential for API calls.
// The credential is opaque; an empty token means unauthenticated access
// with a lower rate limit.
type TokenProvider interface {
	// GetToken returns the token, or an empty string when none is configured.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns the authentication method (pat, none).
	AuthMethod() domain.AuthMethod

	// IsAuthenticated returns true if a token is available.
	IsAuthenticated() bool
}
