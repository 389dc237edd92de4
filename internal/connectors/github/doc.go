// Package github implements a commit source for the GitHub REST API.
//
// # Architecture
//
// The package implements [driven.CommitSource] with two components:
//
//   - Client: go-github over a caller-supplied *http.Client, with a header
//     transport and rate tracking shared by every request
//   - CommitSource: repository probe, commit listing and commit detail
//
// The *http.Client is the connection pool. It is built once per process
// run and passed in, so concurrent detail fetches reuse its connections.
//
// # Authentication
//
// The token is opaque. [NewHTTPClient] wraps it in a static oauth2 token
// source; an empty token yields an unauthenticated client limited to
// 60 requests per hour.
//
// # Rate Limiting
//
//  1. Proactive throttling: a token bucket spaces requests at the configured
//     requests per second. It never retries.
//
//  2. Tracking: X-RateLimit-Limit, X-RateLimit-Remaining and
//     X-RateLimit-Reset are read from every response, including error
//     responses. Absent or malformed headers leave the previous values
//     untouched. An exhausted quota is logged with its reset time.
//
// # Error Handling
//
// Errors are classified under the domain sentinels:
//
//   - 404, 409 and 422 responses, unparseable commit URLs, and payloads
//     missing "sha" or "files": [domain.ErrNotFound]
//   - 409 on a commit listing means the repository is empty and yields an
//     empty page instead of an error
//   - rate limiting, 5xx responses and network failures: [domain.ErrTransient]
//
// Nothing is retried here; callers decide.
package github
