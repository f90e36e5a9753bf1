package bot

import (
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// CautiousStrategy remembers every number it has called and survived. It
// calls through known-safe numbers when it can, spends its pass and return
// before risking an unknown number, and otherwise risks exactly one.
type CautiousStrategy struct {
	safe map[int]bool
}

// NewCautiousStrategy creates a new CautiousStrategy
func NewCautiousStrategy() *CautiousStrategy {
	return &CautiousStrategy{safe: make(map[int]bool)}
}

// Choose picks the safest available command
func (s *CautiousStrategy) Choose(view game.View, self model.PlayerID) game.Command {
	run := 0
	for n := view.Number + 1; n <= model.TargetNumber && run < MaxCall && s.safe[n]; n++ {
		run++
	}
	if run > 0 {
		return game.Call(self, run)
	}

	if view.PassLeft > 0 {
		return game.Pass(self)
	}
	if view.ReturnLeft > 0 {
		return game.Return(self)
	}

	// Surviving this call proves the number is not our trap
	s.safe[view.Number+1] = true
	return game.Call(self, 1)
}

// Reset forgets the safe numbers; traps are redrawn every game
func (s *CautiousStrategy) Reset() {
	clear(s.safe)
}
