package bot

import (
	"log/slog"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/protocol"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// turnKey identifies a turn so a repeated snapshot is not answered twice
type turnKey struct {
	number    int
	round     int
	direction model.Direction
	alive     int
}

// Player reacts to server lines on behalf of one logged-in identity
type Player struct {
	id        model.PlayerID
	strategy  Strategy
	autoReady bool
	logger    *slog.Logger

	lastTurn turnKey
	acted    bool
}

// NewPlayer creates a bot for id. With autoReady the bot readies up whenever
// its room is waiting and it is not yet ready.
func NewPlayer(id model.PlayerID, strategy Strategy, autoReady bool, logger *slog.Logger) *Player {
	return &Player{
		id:        id,
		strategy:  strategy,
		autoReady: autoReady,
		logger:    logger.With(slog.String("component", "bot"), slog.String("player", string(id))),
	}
}

// Handle consumes one server line and returns the lines to send back
func (p *Player) Handle(line string) []string {
	msg := protocol.Split(line)

	switch msg.Type {
	case protocol.TypeUpdate:
		view, err := protocol.ParseUpdate(line)
		if err != nil {
			p.logger.Warn("unreadable update", slog.String("error", err.Error()))
			return nil
		}
		return p.onUpdate(view)
	case protocol.TypeRoomStatus:
		return p.onRoomStatus(line)
	case protocol.TypeWinner:
		p.logger.Info("game over", slog.String("winner", msg.Arg(0)))
		p.strategy.Reset()
		p.acted = false
	}
	return nil
}

func (p *Player) onUpdate(view game.View) []string {
	if view.Current != p.id {
		return nil
	}

	key := turnKey{number: view.Number, round: view.Round, direction: view.Direction}
	for _, seat := range view.Seats {
		if seat.Alive {
			key.alive++
		}
	}
	if p.acted && key == p.lastTurn {
		return nil
	}
	p.lastTurn = key
	p.acted = true

	cmd := p.strategy.Choose(view, p.id)
	p.logger.Debug("playing turn",
		slog.Int("number", view.Number),
		slog.String("kind", cmd.Kind.String()),
		slog.Int("count", cmd.Count),
	)
	return []string{protocol.Action(cmd)}
}

func (p *Player) onRoomStatus(line string) []string {
	if !p.autoReady {
		return nil
	}
	_, members, err := protocol.ParseRoomStatus(line)
	if err != nil {
		return nil
	}
	for _, m := range members {
		if m.PlayerID == p.id && !m.Ready {
			return []string{protocol.Ready()}
		}
	}
	return nil
}
