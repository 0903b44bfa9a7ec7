package domain

import "time"

// Credentials stores the my.scouting.org account used for remote fetches.
// The cache holds at most one set of credentials; the remote session token
// derived from them is transient and never persisted.
type Credentials struct {
	// Username is the my.scouting.org account name.
	Username string `json:"username"`

	// Password is the account password. Stored locally only; the cache is
	// read-only with respect to the remote.
	Password string `json:"password"`

	// UpdatedAt is when the credentials were last saved.
	UpdatedAt time.Time `json:"updated_at"`
}

// Valid reports whether both fields are present.
func (c *Credentials) Valid() bool {
	return c.Username != "" && c.Password != ""
}
