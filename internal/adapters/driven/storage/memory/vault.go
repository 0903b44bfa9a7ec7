package memory

import (
	"context"
	"sync"

	"github.com/dlaporte/trailcache/internal/core/domain"
	"github.com/dlaporte/trailcache/internal/core/ports/driven"
)

// Ensure CredentialVault implements the interface.
var _ driven.CredentialVault = (*CredentialVault)(nil)

// CredentialVault is an in-memory implementation of driven.CredentialVault.
type CredentialVault struct {
	mu    sync.RWMutex
	creds *domain.Credentials
}

// NewCredentialVault creates an empty in-memory vault.
func NewCredentialVault() *CredentialVault {
	return &CredentialVault{}
}

// Get retrieves the stored credentials.
func (v *CredentialVault) Get(_ context.Context) (*domain.Credentials, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.creds == nil {
		return nil, domain.ErrCredentialsNotFound
	}
	c := *v.creds
	return &c, nil
}

// Save stores credentials, replacing any prior set.
func (v *CredentialVault) Save(_ context.Context, creds domain.Credentials) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.creds = &creds
	return nil
}

// Delete removes stored credentials.
func (v *CredentialVault) Delete(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.creds = nil
	return nil
}
