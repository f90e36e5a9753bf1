package server

import (
	"github.com/google/uuid"

	"github.com/mcoot/deadnumber/internal/model"
)

// Outbound delivers protocol lines to one peer
type Outbound interface {
	// Send queues a line without blocking. It reports false when the line
	// was dropped because the peer is closed or too slow.
	Send(line string) bool
	Close() error
}

// Session is one live connection. The bound identity is only read and
// written while the dispatcher lock is held.
type Session struct {
	id     string
	remote string
	out    Outbound
	player model.PlayerID
}

// NewSession creates an unbound session writing to out
func NewSession(remote string, out Outbound) *Session {
	return &Session{
		id:     uuid.NewString(),
		remote: remote,
		out:    out,
	}
}

// ID returns the unique session id
func (s *Session) ID() string { return s.id }

// Remote returns the peer address
func (s *Session) Remote() string { return s.remote }

// Send queues a line for the peer
func (s *Session) Send(line string) bool {
	return s.out.Send(line)
}

// Close shuts down the outbound side of the session
func (s *Session) Close() error {
	return s.out.Close()
}
