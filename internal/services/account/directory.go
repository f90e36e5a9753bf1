package account

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/deadnumber/internal/dependencies/clock"
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/storage"
)

// Config holds configuration for the account directory
type Config struct {
	// BcryptCost is the work factor used when hashing new passwords
	BcryptCost int
}

// DefaultConfig returns default account configuration
func DefaultConfig() Config {
	return Config{
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Directory owns the registered accounts and their online flags
type Directory struct {
	store  storage.CredentialStore
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.Mutex
	accounts map[model.PlayerID]*model.Account

	bcryptCost int
}

// New creates an empty Directory. Call Load to populate it from the store.
func New(store storage.CredentialStore, clock clock.Clock, cfg Config, logger *slog.Logger) *Directory {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Directory{
		store:      store,
		clock:      clock,
		logger:     logger.With(slog.String("component", "accounts")),
		accounts:   make(map[model.PlayerID]*model.Account),
		bcryptCost: cfg.BcryptCost,
	}
}

// Load reads every stored credential into memory. Later duplicates of a
// normalized username are ignored.
func (d *Directory) Load(ctx context.Context) error {
	creds, err := d.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	for _, c := range creds {
		id := model.NormalizeUsername(c.Username)
		if model.ValidateUsername(id) != nil {
			continue
		}
		if _, exists := d.accounts[id]; exists {
			d.logger.Warn("duplicate credential record ignored", slog.String("username", string(id)))
			continue
		}
		d.accounts[id] = &model.Account{Username: id, Secret: c.Secret, CreatedAt: now}
	}

	d.logger.Info("accounts loaded", slog.Int("count", len(d.accounts)))
	return nil
}

// Register creates a new account. The in-memory insert is rolled back if the
// record cannot be persisted.
func (d *Directory) Register(ctx context.Context, username, password string) error {
	id := model.NormalizeUsername(username)
	if err := model.ValidateUsername(id); err != nil {
		return err
	}
	if err := model.ValidatePassword(password); err != nil {
		return err
	}

	if d.exists(id) {
		return model.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[id]; ok {
		return model.ErrAlreadyExists
	}

	acc := &model.Account{Username: id, Secret: string(hash), CreatedAt: d.clock.Now()}
	d.accounts[id] = acc

	if err := d.store.Append(ctx, storage.Credential{Username: string(id), Secret: acc.Secret}); err != nil {
		delete(d.accounts, id)
		d.logger.Error("failed to persist account",
			slog.String("username", string(id)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", model.ErrStorage, err)
	}

	d.logger.Info("account registered", slog.String("username", string(id)))
	return nil
}

// Login verifies credentials and marks the identity online. The online
// check-and-set is atomic, so two concurrent logins for the same identity
// produce exactly one success.
func (d *Directory) Login(ctx context.Context, username, password string) (model.PlayerID, error) {
	id := model.NormalizeUsername(username)

	d.mu.Lock()
	acc, ok := d.accounts[id]
	var secret string
	if ok {
		secret = acc.Secret
	}
	d.mu.Unlock()

	if !ok || !verifySecret(secret, password) {
		return "", model.ErrInvalidCredentials
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if acc.Online {
		return "", model.ErrAlreadyOnline
	}
	acc.Online = true

	d.logger.Info("account logged in", slog.String("username", string(id)))
	return id, nil
}

// Logout clears the online flag. Logging out an offline or unknown identity is a no-op.
func (d *Directory) Logout(id model.PlayerID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if acc, ok := d.accounts[id]; ok && acc.Online {
		acc.Online = false
		d.logger.Info("account logged out", slog.String("username", string(id)))
	}
}

// IsOnline reports whether the identity currently has a bound session
func (d *Directory) IsOnline(id model.PlayerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	acc, ok := d.accounts[id]
	return ok && acc.Online
}

// Count returns the number of registered accounts
func (d *Directory) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.accounts)
}

func (d *Directory) exists(id model.PlayerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.accounts[id]
	return ok
}

// verifySecret compares a password against a bcrypt hash, or against a
// plain-text secret for records that predate hashing
func verifySecret(secret, password string) bool {
	if isBcryptHash(secret) {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
}

func isBcryptHash(secret string) bool {
	return strings.HasPrefix(secret, "$2a$") || strings.HasPrefix(secret, "$2b$") || strings.HasPrefix(secret, "$2y$")
}
