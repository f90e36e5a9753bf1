package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name string
		line string
		want game.Command
	}{
		{"call", "ACTION|alice|CALL|3", game.Call("alice", 3)},
		{"call with newline", "ACTION|alice|CALL|2\r\n", game.Call("alice", 2)},
		{"pass without value", "ACTION|bob|PASS", game.Pass("bob")},
		{"pass ignores value", "ACTION|bob|PASS|0", game.Pass("bob")},
		{"return", "ACTION|carol|RETURN|0", game.Return("carol")},
		{"lowercase type", "ACTION|carol|call|1", game.Call("carol", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActionErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"unknown type", "ACTION|alice|JUMP|1", ErrUnknownAction},
		{"bad integer", "ACTION|alice|CALL|three", ErrMalformedCommand},
		{"missing count", "ACTION|alice|CALL", ErrMalformedCommand},
		{"missing type", "ACTION|alice", ErrMalformedCommand},
		{"missing player", "ACTION||CALL|1", ErrMalformedCommand},
		{"not an action", "READY", ErrMalformedCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAction(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSplit(t *testing.T) {
	msg := Split("LOGIN|alice|pw\n")
	assert.Equal(t, TypeLogin, msg.Type)
	assert.Equal(t, "alice", msg.Arg(0))
	assert.Equal(t, "pw", msg.Arg(1))
	assert.Equal(t, "", msg.Arg(5))

	msg = Split("GET_ROOMS")
	assert.Equal(t, TypeGetRooms, msg.Type)
	assert.Empty(t, msg.Args)
}

func TestRoomStatus(t *testing.T) {
	line := RoomStatus("fun", []model.RoomMember{
		{PlayerID: "alice", Ready: true},
		{PlayerID: "bob", Ready: false},
	})
	assert.Equal(t, "ROOM_STATUS|fun|alice:READY;bob:WAIT;", line)
}

func TestUpdate(t *testing.T) {
	v := game.View{
		Number:    4,
		Direction: model.DirectionReverse,
		Current:   "bob",
		Seats: []game.SeatView{
			{ID: "alice", Alive: true},
			{ID: "bob", Alive: true, Trap: 9, TrapKnown: true},
			{ID: "carol", Alive: false, Trap: 2, TrapKnown: true},
		},
		Round:      3,
		ReturnLeft: 0,
		PassLeft:   1,
	}
	assert.Equal(t, "UPDATE|4|CCW|bob|alice:1:?;bob:1:9;carol:0:2|3|0|1", Update(v))
}

func TestWinner(t *testing.T) {
	line := Winner("bob", []game.Elimination{
		{Player: "alice", Round: 1, Number: 5},
		{Player: "carol", Round: 2, Left: true},
	})
	assert.Equal(t, "WINNER|bob|alice:round 1 called 5;carol:left in round 2;", line)

	assert.Equal(t, "WINNER|bob|none", Winner("bob", nil))
}

func TestSimpleEncoders(t *testing.T) {
	assert.Equal(t, "LOGIN_SUCCESS|alice", LoginSuccess("alice"))
	assert.Equal(t, "LOGIN_FAIL", LoginFail())
	assert.Equal(t, "ERROR|ALREADY_LOGGED_IN", Error(ReasonAlreadyLoggedIn))
	assert.Equal(t, "REGISTER_RESULT|EXISTS", RegisterResult(RegisterExists))
	assert.Equal(t, "CREATE_SUCCESS|001|fun", CreateSuccess("001", "fun"))
	assert.Equal(t, "NEW_ROOM|001|fun|2", NewRoom("001", "fun", 2))
	assert.Equal(t, "LEAVE_SUCCESS", LeaveSuccess())
}

func TestActionRoundTrip(t *testing.T) {
	for _, cmd := range []game.Command{game.Call("alice", 1), game.Pass("bob"), game.Return("carol")} {
		got, err := ParseAction(Action(cmd))
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}
}

func TestRequestEncoders(t *testing.T) {
	assert.Equal(t, "LOGIN|alice|pw", Login("alice", "pw"))
	assert.Equal(t, "REGISTER|alice|pw", Register("alice", "pw"))
	assert.Equal(t, "CREATE_ROOM|fun", CreateRoom("fun"))
	assert.Equal(t, "JOIN_ROOM|001", JoinRoom("001"))

	for _, line := range []string{LeaveRoom(), GetRooms(), Ready(), CancelReady(), Restart()} {
		msg := Split(line)
		assert.Empty(t, msg.Args, line)
	}
}

func TestParseUpdate(t *testing.T) {
	v, err := ParseUpdate("UPDATE|7|CCW|bob|alice:0:5;bob:1:?;carol:1:11|3|0|1")
	require.NoError(t, err)

	assert.Equal(t, 7, v.Number)
	assert.Equal(t, model.DirectionReverse, v.Direction)
	assert.Equal(t, model.PlayerID("bob"), v.Current)
	assert.Equal(t, []game.SeatView{
		{ID: "alice", Alive: false, Trap: 5, TrapKnown: true},
		{ID: "bob", Alive: true},
		{ID: "carol", Alive: true, Trap: 11, TrapKnown: true},
	}, v.Seats)
	assert.Equal(t, 3, v.Round)
	assert.Equal(t, 0, v.ReturnLeft)
	assert.Equal(t, 1, v.PassLeft)

	assert.Equal(t, "UPDATE|7|CCW|bob|alice:0:5;bob:1:?;carol:1:11|3|0|1", Update(v))
}

func TestParseUpdateErrors(t *testing.T) {
	for _, line := range []string{
		"WINNER|bob|none",
		"UPDATE|7|CCW|bob",
		"UPDATE|x|CW|bob|bob:1:?|1|1|1",
		"UPDATE|1|UP|bob|bob:1:?|1|1|1",
		"UPDATE|1|CW|bob|bob:1|1|1|1",
		"UPDATE|1|CW|bob|bob:1:z|1|1|1",
		"UPDATE|1|CW|bob|bob:1:?|1|x|1",
	} {
		_, err := ParseUpdate(line)
		assert.ErrorIs(t, err, ErrMalformedCommand, line)
	}
}

func TestParseRoomStatus(t *testing.T) {
	name, members, err := ParseRoomStatus("ROOM_STATUS|fun|alice:READY;bob:WAIT;")
	require.NoError(t, err)
	assert.Equal(t, "fun", name)
	assert.Equal(t, []model.RoomMember{{PlayerID: "alice", Ready: true}, {PlayerID: "bob"}}, members)

	_, _, err = ParseRoomStatus("NEW_ROOM|001|fun|1")
	assert.Error(t, err)
}
