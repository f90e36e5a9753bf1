package cli

import (
	"fmt"
	"strings"

	"github.com/mcoot/deadnumber/internal/protocol"
)

// RenderLine turns a server line into a human readable description. Lines
// it does not recognise are returned unchanged.
func RenderLine(line string) string {
	msg := protocol.Split(line)

	switch msg.Type {
	case protocol.TypeLoginSuccess:
		return "Logged in as " + msg.Arg(0)
	case protocol.TypeLoginFail:
		return "Login failed: unknown user or wrong password"
	case protocol.TypeError:
		return "Error: " + msg.Arg(0)
	case protocol.TypeRegisterResult:
		return "Registration: " + msg.Arg(0)
	case protocol.TypeCreateSuccess:
		return fmt.Sprintf("Created room %s (%s)", msg.Arg(1), msg.Arg(0))
	case protocol.TypeNewRoom:
		return fmt.Sprintf("Room %s %q has %s player(s)", msg.Arg(0), msg.Arg(1), msg.Arg(2))
	case protocol.TypeLeaveSuccess:
		return "Left the room"
	case protocol.TypeRoomStatus:
		return renderRoomStatus(line)
	case protocol.TypeUpdate:
		return renderUpdate(line)
	case protocol.TypeWinner:
		return renderWinner(msg)
	default:
		return line
	}
}

func renderRoomStatus(line string) string {
	name, members, err := protocol.ParseRoomStatus(line)
	if err != nil {
		return line
	}
	parts := make([]string, len(members))
	for i, m := range members {
		status := "waiting"
		if m.Ready {
			status = "ready"
		}
		parts[i] = fmt.Sprintf("%s %s", m.PlayerID, status)
	}
	return fmt.Sprintf("Room %s: %s", name, strings.Join(parts, ", "))
}

func renderUpdate(line string) string {
	v, err := protocol.ParseUpdate(line)
	if err != nil {
		return line
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Number %d  direction %s  round %d  turn: %s  (return %d, pass %d)",
		v.Number, v.Direction, v.Round, v.Current, v.ReturnLeft, v.PassLeft)
	for _, s := range v.Seats {
		trap := "?"
		if s.TrapKnown {
			trap = fmt.Sprint(s.Trap)
		}
		state := "alive"
		if !s.Alive {
			state = "out"
		}
		marker := " "
		if s.ID == v.Current {
			marker = ">"
		}
		fmt.Fprintf(&b, "\n %s %-16s %-5s trap %s", marker, s.ID, state, trap)
	}
	return b.String()
}

func renderWinner(msg protocol.Message) string {
	notes := msg.Arg(1)
	if notes == protocol.NoEliminations || notes == "" {
		return "Winner: " + msg.Arg(0)
	}
	entries := strings.Split(strings.TrimSuffix(notes, ";"), ";")
	return fmt.Sprintf("Winner: %s (%s)", msg.Arg(0), strings.Join(entries, ", "))
}
