package driven

import (
	"context"

	"github.com/dlaporte/trailcache/internal/core/domain"
)

// CredentialVault stores the remote account credentials.
//
// Get returning domain.ErrCredentialsNotFound is an expected condition, not
// a fault: fetchers report it as an auth-missing failure for every requested
// domain rather than failing startup.
type CredentialVault interface {
	// Get retrieves the stored credentials.
	// Returns domain.ErrCredentialsNotFound if none are stored.
	Get(ctx context.Context) (*domain.Credentials, error)

	// Save stores credentials, replacing any prior set.
	Save(ctx context.Context, creds domain.Credentials) error

	// Delete removes stored credentials. Deleting when none are stored
	// is not an error.
	Delete(ctx context.Context) error
}
