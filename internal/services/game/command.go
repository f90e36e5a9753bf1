package game

import "github.com/mcoot/deadnumber/internal/model"

// CommandKind identifies which turn action a Command performs
type CommandKind int

const (
	CommandCall CommandKind = iota + 1
	CommandPass
	CommandReturn
)

// String returns the wire name of the command kind
func (k CommandKind) String() string {
	switch k {
	case CommandCall:
		return "CALL"
	case CommandPass:
		return "PASS"
	case CommandReturn:
		return "RETURN"
	default:
		return "UNKNOWN"
	}
}

// Command is a single turn action taken by a participant.
// Count is only meaningful for CommandCall.
type Command struct {
	Kind   CommandKind
	Player model.PlayerID
	Count  int
}

// Call builds a command that advances the number by n units
func Call(player model.PlayerID, n int) Command {
	return Command{Kind: CommandCall, Player: player, Count: n}
}

// Pass builds a command that spends the pass credit
func Pass(player model.PlayerID) Command {
	return Command{Kind: CommandPass, Player: player}
}

// Return builds a command that spends the return credit and reverses direction
func Return(player model.PlayerID) Command {
	return Command{Kind: CommandReturn, Player: player}
}
