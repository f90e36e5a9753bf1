package memory

import (
	"context"
	"sync"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/storage"
)

// Storage is an in-memory implementation of the credential store
type Storage struct {
	mu sync.RWMutex

	credentials []storage.Credential
	appendErr   error
}

// New creates a new in-memory storage instance
func New(seed ...storage.Credential) *Storage {
	return &Storage{
		credentials: append([]storage.Credential(nil), seed...),
	}
}

// Ensure Storage implements the interface
var _ storage.CredentialStore = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) ([]storage.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Credential, len(s.credentials))
	copy(out, s.credentials)
	return out, nil
}

func (s *Storage) Append(ctx context.Context, cred storage.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.credentials = append(s.credentials, cred)
	return nil
}

// FailAppends makes every subsequent Append return err; nil restores normal behaviour
func (s *Storage) FailAppends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// Lookup returns the stored secret for an exact username
func (s *Storage) Lookup(username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.Username == username {
			return c.Secret, nil
		}
	}
	return "", model.ErrInvalidCredentials
}
