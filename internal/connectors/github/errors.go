package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/git-analyzer/internal/core/domain"
)

// ErrMalformedPayload indicates a response body that could not be decoded
// or lacks a required key.
var ErrMalformedPayload = errors.New("github: malformed payload")

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return absentStatus(apiErr.StatusCode)
	}
	return errors.Is(err, ErrMalformedPayload)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// isEmptyRepository reports a 409 Conflict, the answer to listing the
// commits of a repository without any.
func isEmptyRepository(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// absentStatus reports statuses that mean the resource does not exist.
// 409 is returned for empty repositories, 422 for unknown commit shas.
func absentStatus(code int) bool {
	switch code {
	case http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}

// wrapError converts go-github errors to our error types and classifies
// them under the domain sentinels.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrTransient, &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		})
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		state := c.rateLimiter.State()
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrTransient, &RateLimitError{
			ResetAt:   time.Now().Add(abuseErr.GetRetryAfter()),
			Remaining: state.Remaining,
			Limit:     state.Limit,
		})
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}

		switch {
		case absentStatus(apiErr.StatusCode):
			return fmt.Errorf("%s: %w: %w", operation, domain.ErrNotFound, apiErr)
		case apiErr.StatusCode == http.StatusTooManyRequests, apiErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%s: %w: %w", operation, domain.ErrTransient, apiErr)
		default:
			return fmt.Errorf("%s: %w", operation, apiErr)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	// Anything else never produced a usable response.
	return fmt.Errorf("%s: %w: %w", operation, domain.ErrTransient, err)
}
