package storage

import (
	"context"
)

// Credential is one persisted username:secret record
type Credential struct {
	Username string
	Secret   string
}

// CredentialStore defines the persistence boundary of the account directory.
// Records are loaded once at startup and appended on each registration.
type CredentialStore interface {
	// Load returns every stored credential in file order
	Load(ctx context.Context) ([]Credential, error)

	// Append durably adds a single credential
	Append(ctx context.Context, cred Credential) error
}
