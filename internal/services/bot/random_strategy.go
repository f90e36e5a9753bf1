package bot

import (
	"github.com/mcoot/deadnumber/internal/dependencies/random"
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// RandomStrategy calls a random count between 1 and MaxCall without
// passing 13
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// Choose picks a random call
func (s *RandomStrategy) Choose(view game.View, self model.PlayerID) game.Command {
	limit := min(MaxCall, model.TargetNumber-view.Number)
	return game.Call(self, random.Between(s.random, 1, max(limit, 1)))
}

// Reset is a no-op
func (s *RandomStrategy) Reset() {}
