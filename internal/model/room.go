package model

import "fmt"

// RoomID is the zero-padded sequential identifier of a room
type RoomID string

// FormatRoomID renders a sequence number as a room id ("001", "002", ...)
func FormatRoomID(seq int) RoomID {
	return RoomID(fmt.Sprintf("%03d", seq))
}

// RoomState represents whether a room is gathering players or running a game
type RoomState string

const (
	RoomStateWaiting RoomState = "waiting" // No engine
	RoomStateInGame  RoomState = "in_game" // Engine active
)

// RoomMember is a member of a room with its ready flag, in seating order
type RoomMember struct {
	PlayerID PlayerID
	Ready    bool
}

// RoomSummary is the lobby-facing view of a room
type RoomSummary struct {
	ID          RoomID
	Name        string
	MemberCount int
	Capacity    int
	State       RoomState
	Members     []RoomMember
}
