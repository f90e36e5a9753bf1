package game

import (
	"fmt"

	"github.com/mcoot/deadnumber/internal/model"
)

// Elimination records how a participant left the game
type Elimination struct {
	Player model.PlayerID
	Round  int
	Number int  // value that hit the trap; zero for departures
	Left   bool // disconnected or left the room mid-game
}

// Note is the human-readable form carried in the WINNER message.
// It never contains protocol delimiters.
func (e Elimination) Note() string {
	if e.Left {
		return fmt.Sprintf("left in round %d", e.Round)
	}
	return fmt.Sprintf("round %d called %d", e.Round, e.Number)
}

// EliminationLog is the append-only record of eliminations for one game
type EliminationLog struct {
	entries []Elimination
}

// NewEliminationLog creates an empty log
func NewEliminationLog() *EliminationLog {
	return &EliminationLog{}
}

// Record appends an elimination
func (l *EliminationLog) Record(e Elimination) {
	l.entries = append(l.entries, e)
}

// Entries returns the eliminations in the order they happened
func (l *EliminationLog) Entries() []Elimination {
	out := make([]Elimination, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded eliminations
func (l *EliminationLog) Len() int {
	return len(l.entries)
}
