// Package auth provides TokenProvider implementations.
//
// The API token is an opaque credential read from the environment.
// No authentication flow is implemented here.
package auth
