package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mcoot/deadnumber/internal/storage"
)

// Storage persists credentials as "username:secret" lines in a flat file
type Storage struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// Ensure Storage implements the interface
var _ storage.CredentialStore = (*Storage)(nil)

// New opens the credential file at path, creating it (and its directory) if missing
func New(path string, logger *slog.Logger) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create credential directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open credential file: %w", err)
	}
	_ = f.Close()

	return &Storage{
		path:   path,
		logger: logger.With(slog.String("component", "credential_file")),
	}, nil
}

// Path returns the location of the credential file
func (s *Storage) Path() string {
	return s.path
}

// Load reads every well-formed record. Malformed lines are skipped with a warning.
func (s *Storage) Load(ctx context.Context) ([]storage.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open credential file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var creds []storage.Credential
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		username, secret, ok := strings.Cut(line, ":")
		if !ok || username == "" {
			s.logger.Warn("skipping malformed credential record", slog.Int("line", lineNo))
			continue
		}
		creds = append(creds, storage.Credential{Username: username, Secret: secret})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	return creds, nil
}

// Append writes one record and syncs it to disk
func (s *Storage) Append(ctx context.Context, cred storage.Credential) error {
	if strings.ContainsAny(cred.Username, ":\n") || strings.Contains(cred.Secret, "\n") {
		return fmt.Errorf("credential for %q cannot be encoded", cred.Username)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open credential file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s:%s\n", cred.Username, cred.Secret); err != nil {
		_ = f.Close()
		return fmt.Errorf("write credential: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync credential file: %w", err)
	}
	return f.Close()
}
