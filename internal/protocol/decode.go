package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// ParseUpdate decodes an UPDATE line back into the snapshot it carries
func ParseUpdate(line string) (game.View, error) {
	msg := Split(line)
	if msg.Type != TypeUpdate || len(msg.Args) != 7 {
		return game.View{}, fmt.Errorf("%w: not an update line", ErrMalformedCommand)
	}

	var v game.View
	var err error
	if v.Number, err = strconv.Atoi(msg.Args[0]); err != nil {
		return game.View{}, fmt.Errorf("%w: number: %w", ErrMalformedCommand, err)
	}
	switch msg.Args[1] {
	case model.DirectionForward.String():
		v.Direction = model.DirectionForward
	case model.DirectionReverse.String():
		v.Direction = model.DirectionReverse
	default:
		return game.View{}, fmt.Errorf("%w: direction %q", ErrMalformedCommand, msg.Args[1])
	}
	v.Current = model.PlayerID(msg.Args[2])

	for _, seat := range strings.Split(msg.Args[3], ";") {
		if seat == "" {
			continue
		}
		parts := strings.Split(seat, ":")
		if len(parts) != 3 {
			return game.View{}, fmt.Errorf("%w: seat %q", ErrMalformedCommand, seat)
		}
		sv := game.SeatView{ID: model.PlayerID(parts[0]), Alive: parts[1] == "1"}
		if parts[2] != "?" {
			if sv.Trap, err = strconv.Atoi(parts[2]); err != nil {
				return game.View{}, fmt.Errorf("%w: trap: %w", ErrMalformedCommand, err)
			}
			sv.TrapKnown = true
		}
		v.Seats = append(v.Seats, sv)
	}

	ints := []*int{&v.Round, &v.ReturnLeft, &v.PassLeft}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(msg.Args[4+i]); err != nil {
			return game.View{}, fmt.Errorf("%w: counter: %w", ErrMalformedCommand, err)
		}
	}
	return v, nil
}

// ParseRoomStatus decodes a ROOM_STATUS line into the room name and members
func ParseRoomStatus(line string) (string, []model.RoomMember, error) {
	msg := Split(line)
	if msg.Type != TypeRoomStatus || len(msg.Args) < 1 {
		return "", nil, fmt.Errorf("%w: not a room status line", ErrMalformedCommand)
	}

	var members []model.RoomMember
	for _, entry := range strings.Split(msg.Arg(1), ";") {
		if entry == "" {
			continue
		}
		id, status, ok := strings.Cut(entry, ":")
		if !ok {
			return "", nil, fmt.Errorf("%w: member %q", ErrMalformedCommand, entry)
		}
		members = append(members, model.RoomMember{PlayerID: model.PlayerID(id), Ready: status == StatusReady})
	}
	return msg.Args[0], members, nil
}
