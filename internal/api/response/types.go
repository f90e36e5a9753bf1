package response

import (
	"github.com/mcoot/deadnumber/internal/model"
)

// Health is the response for the health endpoint
type Health struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Rooms    int    `json:"rooms"`
	Accounts int    `json:"accounts"`
}

// RoomMember represents a seated player
type RoomMember struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// Room represents a room in API responses
type Room struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	MemberCount int          `json:"member_count"`
	Capacity    int          `json:"capacity"`
	State       string       `json:"state"`
	Members     []RoomMember `json:"members"`
}

// RoomFromModel converts a model.RoomSummary
func RoomFromModel(r model.RoomSummary) Room {
	members := make([]RoomMember, len(r.Members))
	for i, m := range r.Members {
		members[i] = RoomMember{PlayerID: string(m.PlayerID), Ready: m.Ready}
	}
	return Room{
		ID:          string(r.ID),
		Name:        r.Name,
		MemberCount: r.MemberCount,
		Capacity:    r.Capacity,
		State:       string(r.State),
		Members:     members,
	}
}

// RoomList is the response for listing rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromModel converts a slice of summaries
func RoomListFromModel(summaries []model.RoomSummary) RoomList {
	rooms := make([]Room, len(summaries))
	for i, s := range summaries {
		rooms[i] = RoomFromModel(s)
	}
	return RoomList{Rooms: rooms}
}
