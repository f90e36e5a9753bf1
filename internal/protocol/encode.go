package protocol

import (
	"strconv"
	"strings"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

func join(fields ...string) string {
	return strings.Join(fields, Delimiter)
}

// LoginSuccess encodes LOGIN_SUCCESS|user
func LoginSuccess(id model.PlayerID) string {
	return join(TypeLoginSuccess, string(id))
}

// LoginFail encodes LOGIN_FAIL
func LoginFail() string {
	return TypeLoginFail
}

// Error encodes ERROR|reason
func Error(reason string) string {
	return join(TypeError, reason)
}

// RegisterResult encodes REGISTER_RESULT|SUCCESS, EXISTS or ERROR
func RegisterResult(result string) string {
	return join(TypeRegisterResult, result)
}

// CreateSuccess encodes CREATE_SUCCESS|roomId|roomName
func CreateSuccess(id model.RoomID, name string) string {
	return join(TypeCreateSuccess, string(id), name)
}

// NewRoom encodes the room-list upsert NEW_ROOM|roomId|roomName|memberCount
func NewRoom(id model.RoomID, name string, count int) string {
	return join(TypeNewRoom, string(id), name, strconv.Itoa(count))
}

// RoomStatus encodes ROOM_STATUS|roomName|m1:READY;m2:WAIT;
func RoomStatus(name string, members []model.RoomMember) string {
	var b strings.Builder
	for _, m := range members {
		b.WriteString(string(m.PlayerID))
		b.WriteString(":")
		if m.Ready {
			b.WriteString(StatusReady)
		} else {
			b.WriteString(StatusWait)
		}
		b.WriteString(";")
	}
	return join(TypeRoomStatus, name, b.String())
}

// LeaveSuccess encodes LEAVE_SUCCESS
func LeaveSuccess() string {
	return TypeLeaveSuccess
}

// Update encodes the per-recipient synchronization snapshot
// UPDATE|number|CW|current|id:1:trap;id:0:?|round|returnLeft|passLeft
func Update(v game.View) string {
	seats := make([]string, len(v.Seats))
	for i, s := range v.Seats {
		alive := "0"
		if s.Alive {
			alive = "1"
		}
		trap := "?"
		if s.TrapKnown {
			trap = strconv.Itoa(s.Trap)
		}
		seats[i] = string(s.ID) + ":" + alive + ":" + trap
	}
	return join(
		TypeUpdate,
		strconv.Itoa(v.Number),
		v.Direction.String(),
		string(v.Current),
		strings.Join(seats, ";"),
		strconv.Itoa(v.Round),
		strconv.Itoa(v.ReturnLeft),
		strconv.Itoa(v.PassLeft),
	)
}

// Winner encodes WINNER|winnerId|p:note;q:note;
func Winner(winner model.PlayerID, eliminations []game.Elimination) string {
	if len(eliminations) == 0 {
		return join(TypeWinner, string(winner), NoEliminations)
	}
	var b strings.Builder
	for _, e := range eliminations {
		b.WriteString(string(e.Player))
		b.WriteString(":")
		b.WriteString(e.Note())
		b.WriteString(";")
	}
	return join(TypeWinner, string(winner), b.String())
}

// Action encodes ACTION|player|type|value, used for injected timeouts and by clients
func Action(cmd game.Command) string {
	switch cmd.Kind {
	case game.CommandCall:
		return join(TypeAction, string(cmd.Player), ActionCall, strconv.Itoa(cmd.Count))
	default:
		return join(TypeAction, string(cmd.Player), cmd.Kind.String(), "0")
	}
}
