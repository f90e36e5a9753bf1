package bot

import (
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// MaxCall is the most numbers a bot calls in one turn
const MaxCall = 3

// Strategy decides the command a bot plays on its turn
type Strategy interface {
	// Choose returns the command for self given the snapshot it received
	Choose(view game.View, self model.PlayerID) game.Command
	// Reset forgets anything learned during the previous game
	Reset()
}
