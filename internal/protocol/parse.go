package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// Errors
var (
	ErrUnknownAction    = errors.New("unknown action type")
	ErrMalformedCommand = errors.New("malformed command")
)

// Message is one decoded inbound line
type Message struct {
	Type string
	Args []string
}

// Arg returns the i-th argument or an empty string
func (m Message) Arg(i int) string {
	if i < 0 || i >= len(m.Args) {
		return ""
	}
	return m.Args[i]
}

// Split decodes a raw line into its type and arguments. Trailing line
// terminators are ignored.
func Split(line string) Message {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, Delimiter)
	return Message{Type: strings.TrimSpace(parts[0]), Args: parts[1:]}
}

// ParseAction parses "ACTION|<playerId>|<type>|<value>" into a turn command
func ParseAction(line string) (game.Command, error) {
	msg := Split(line)
	if msg.Type != TypeAction {
		return game.Command{}, fmt.Errorf("%w: not an action line", ErrMalformedCommand)
	}
	return ParseActionArgs(msg.Args)
}

// ParseActionArgs parses the fields following the ACTION type
func ParseActionArgs(args []string) (game.Command, error) {
	if len(args) < 2 || args[0] == "" {
		return game.Command{}, fmt.Errorf("%w: expected player and action type", ErrMalformedCommand)
	}
	player := model.PlayerID(args[0])

	switch strings.ToUpper(strings.TrimSpace(args[1])) {
	case ActionCall:
		if len(args) < 3 {
			return game.Command{}, fmt.Errorf("%w: CALL requires a count", ErrMalformedCommand)
		}
		n, err := strconv.Atoi(strings.TrimSpace(args[2]))
		if err != nil {
			return game.Command{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
		}
		return game.Call(player, n), nil
	case ActionPass:
		return game.Pass(player), nil
	case ActionReturn:
		return game.Return(player), nil
	default:
		return game.Command{}, fmt.Errorf("%w: %q", ErrUnknownAction, args[1])
	}
}
