package game

import (
	"github.com/mcoot/deadnumber/internal/dependencies/random"
	"github.com/mcoot/deadnumber/internal/model"
)

// Credits each participant starts with
const (
	InitialPassCredits   = 1
	InitialReturnCredits = 1
)

// Participant is one seat in a running game
type Participant struct {
	ID         model.PlayerID
	Alive      bool
	Trap       int
	PassLeft   int
	ReturnLeft int
}

// Engine is the turn state machine for one game. It is not safe for
// concurrent use; the owning room serializes access.
type Engine struct {
	players   []Participant
	number    int
	direction model.Direction
	current   int
	round     int
	log       *EliminationLog
}

// NewEngine seats the players in the given order and draws a secret trap
// for each of them in [1, 13]
func NewEngine(players []model.PlayerID, rnd random.Random) (*Engine, error) {
	if len(players) < 2 {
		return nil, model.ErrInsufficientPlayers
	}

	seats := make([]Participant, len(players))
	for i, id := range players {
		seats[i] = Participant{
			ID:         id,
			Alive:      true,
			Trap:       random.Between(rnd, 1, model.MaxTrap),
			PassLeft:   InitialPassCredits,
			ReturnLeft: InitialReturnCredits,
		}
	}

	return &Engine{
		players:   seats,
		direction: model.DirectionForward,
		round:     1,
		log:       NewEliminationLog(),
	}, nil
}

// Apply validates and executes a command from the current player
func (e *Engine) Apply(cmd Command) error {
	if _, over := e.Winner(); over {
		return model.ErrGameComplete
	}

	idx := e.indexOf(cmd.Player)
	if idx < 0 {
		return model.ErrNotParticipant
	}
	if idx != e.current {
		return model.ErrNotPlayerTurn
	}

	switch cmd.Kind {
	case CommandCall:
		return e.call(cmd.Count)
	case CommandPass:
		return e.pass()
	case CommandReturn:
		return e.reverse()
	default:
		return model.ErrUnknownCommand
	}
}

func (e *Engine) call(n int) error {
	if n < 1 {
		return model.ErrInvalidCall
	}
	if n > model.TargetNumber-e.number {
		return model.ErrCallExceedsLimit
	}

	p := &e.players[e.current]
	for i := 0; i < n; i++ {
		e.number++
		if e.number == p.Trap {
			p.Alive = false
			e.log.Record(Elimination{Player: p.ID, Round: e.round, Number: e.number})
			e.number = 0
			e.advance()
			return nil
		}
	}

	if e.number == model.TargetNumber {
		e.number = 0
	}
	e.advance()
	return nil
}

func (e *Engine) pass() error {
	p := &e.players[e.current]
	if p.PassLeft <= 0 {
		return model.ErrAbilityUsed
	}
	p.PassLeft--
	e.advance()
	return nil
}

func (e *Engine) reverse() error {
	p := &e.players[e.current]
	if p.ReturnLeft <= 0 {
		return model.ErrAbilityUsed
	}
	p.ReturnLeft--
	e.direction = e.direction.Flip()
	e.advance()
	return nil
}

// Forfeit eliminates a participant who left the game. If they held the
// turn, it passes to the next alive player. It reports whether the current
// player changed.
func (e *Engine) Forfeit(player model.PlayerID) (bool, error) {
	idx := e.indexOf(player)
	if idx < 0 {
		return false, model.ErrNotParticipant
	}
	p := &e.players[idx]
	if !p.Alive {
		return false, nil
	}

	p.Alive = false
	e.log.Record(Elimination{Player: p.ID, Round: e.round, Left: true})

	if idx != e.current {
		return false, nil
	}
	e.advance()
	return true, nil
}

// advance moves the turn to the next alive player in the current direction,
// bumping the round counter when the seat index wraps
func (e *Engine) advance() {
	if e.aliveCount() == 0 {
		return
	}

	n := len(e.players)
	step := 1
	if e.direction == model.DirectionReverse {
		step = -1
	}

	old := e.current
	next := old
	for {
		next = (next + step + n) % n
		if e.players[next].Alive {
			break
		}
	}

	if (e.direction == model.DirectionForward && next <= old) ||
		(e.direction == model.DirectionReverse && next >= old) {
		e.round++
	}
	e.current = next
}

// Winner returns the sole surviving participant once the game is over
func (e *Engine) Winner() (model.PlayerID, bool) {
	var winner model.PlayerID
	alive := 0
	for _, p := range e.players {
		if p.Alive {
			alive++
			winner = p.ID
		}
	}
	if alive != 1 {
		return "", false
	}
	return winner, true
}

// Eliminations returns the elimination log for this game
func (e *Engine) Eliminations() []Elimination {
	return e.log.Entries()
}

// Current returns the player whose turn it is
func (e *Engine) Current() model.PlayerID {
	return e.players[e.current].ID
}

// Number returns the running number
func (e *Engine) Number() int {
	return e.number
}

// Round returns the round counter, starting at 1
func (e *Engine) Round() int {
	return e.round
}

// Direction returns the current turn direction
func (e *Engine) Direction() model.Direction {
	return e.direction
}

// Participants returns the seats in turn order
func (e *Engine) Participants() []Participant {
	out := make([]Participant, len(e.players))
	copy(out, e.players)
	return out
}

// IsParticipant reports whether the player was seated in this game
func (e *Engine) IsParticipant(player model.PlayerID) bool {
	return e.indexOf(player) >= 0
}

func (e *Engine) indexOf(player model.PlayerID) int {
	for i, p := range e.players {
		if p.ID == player {
			return i
		}
	}
	return -1
}

func (e *Engine) aliveCount() int {
	count := 0
	for _, p := range e.players {
		if p.Alive {
			count++
		}
	}
	return count
}
