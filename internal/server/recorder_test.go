package server

import (
	"slices"
	"sync"
)

// recorder is an Outbound that keeps every line it is sent
type recorder struct {
	mu     sync.Mutex
	lines  []string
	closed bool
}

func (r *recorder) Send(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.lines = append(r.lines, line)
	return true
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// take returns the lines received since the previous take
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.lines
	r.lines = nil
	return out
}

func (r *recorder) contains(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.lines, line)
}
