package model

import (
	"strings"
	"time"
)

// PlayerID is the normalized username a session is bound to after login
type PlayerID string

// SystemPlayer is the sender identity used for server-injected actions
const SystemPlayer PlayerID = ""

// Account is a registered identity in the credential directory
type Account struct {
	Username  PlayerID
	Secret    string // bcrypt hash, or plain text for legacy records
	Online    bool   // transient, never persisted
	CreatedAt time.Time
}

// NormalizeUsername trims surrounding whitespace and lowercases the name
func NormalizeUsername(username string) PlayerID {
	return PlayerID(strings.ToLower(strings.TrimSpace(username)))
}

// ValidateUsername reports whether a normalized username can be stored and
// carried on the wire
func ValidateUsername(id PlayerID) error {
	if id == "" {
		return ErrInvalidUsername
	}
	if strings.ContainsAny(string(id), ":|;\r\n") {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword reports whether a password can be stored in the flat credential file
func ValidatePassword(password string) error {
	if password == "" || strings.ContainsAny(password, "|\r\n") {
		return ErrInvalidPassword
	}
	return nil
}
