package server

import (
	"log/slog"
	"sync"
)

// DefaultOutboxSize is the number of lines buffered per session
const DefaultOutboxSize = 256

// LineWriter writes one protocol line to a transport
type LineWriter interface {
	WriteLine(line string) error
	Close() error
}

// Outbox is a bounded queue drained by a single writer goroutine. Sends
// never block: when the queue is full the line is dropped with a warning.
type Outbox struct {
	w      LineWriter
	logger *slog.Logger

	mu     sync.RWMutex
	send   chan string
	closed bool

	done chan struct{}
}

// Ensure Outbox implements Outbound
var _ Outbound = (*Outbox)(nil)

// NewOutbox creates an outbox for w. Call Run to start draining it.
func NewOutbox(w LineWriter, size int, logger *slog.Logger) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{
		w:      w,
		logger: logger,
		send:   make(chan string, size),
		done:   make(chan struct{}),
	}
}

// Run writes queued lines until the outbox is closed. A failed write closes
// the underlying transport; remaining lines are discarded.
func (o *Outbox) Run() {
	defer close(o.done)

	failed := false
	for line := range o.send {
		if failed {
			continue
		}
		if err := o.w.WriteLine(line); err != nil {
			o.logger.Warn("write failed, closing transport", slog.String("error", err.Error()))
			failed = true
			_ = o.w.Close()
		}
	}
}

// Send queues a line
func (o *Outbox) Send(line string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return false
	}
	select {
	case o.send <- line:
		return true
	default:
		o.logger.Warn("outbox full, dropping line", slog.Int("buffered", len(o.send)))
		return false
	}
}

// Close stops accepting lines. Lines already queued are still written.
func (o *Outbox) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.send)
	}
	return nil
}

// Done is closed once Run has returned
func (o *Outbox) Done() <-chan struct{} {
	return o.done
}
