package domain

// AuthMethod defines how requests to the hosting API are authenticated.
type AuthMethod string

const (
	// AuthMethodNone sends requests without a credential (lower rate limit).
	AuthMethodNone AuthMethod = "none"
	// AuthMethodPAT uses a personal access token from the environment.
	AuthMethodPAT AuthMethod = "pat"
)

// String returns the string representation of the auth method.
func (m AuthMethod) String() string {
	return string(m)
}
