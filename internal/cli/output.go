package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string

	mu sync.Mutex
	w  io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	if _, ok := data.(ServerLine); !ok {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case RoomList:
		o.printRoomList(v)
	case Room:
		o.printRoom(v)
	case ServerLine:
		fmt.Fprintln(o.w, RenderLine(v.Raw))
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Rooms    int    `json:"rooms"`
	Accounts int    `json:"accounts"`
}

// RoomMember response type
type RoomMember struct {
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// Room response type
type Room struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	MemberCount int          `json:"member_count"`
	Capacity    int          `json:"capacity"`
	State       string       `json:"state"`
	Members     []RoomMember `json:"members"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// ServerLine is one raw protocol line received during play
type ServerLine struct {
	Type string   `json:"type"`
	Args []string `json:"args"`
	Raw  string   `json:"raw"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Sessions: %d\n", h.Sessions)
	fmt.Fprintf(o.w, "Rooms: %d\n", h.Rooms)
	fmt.Fprintf(o.w, "Accounts: %d\n", h.Accounts)
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No rooms")
		return
	}
	for _, r := range l.Rooms {
		fmt.Fprintf(o.w, "%s  %-20s %d/%d  %s\n", r.ID, r.Name, r.MemberCount, r.Capacity, r.State)
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s (%s)\n", r.Name, r.ID)
	fmt.Fprintf(o.w, "State: %s\n", r.State)
	fmt.Fprintf(o.w, "Members (%d/%d):\n", r.MemberCount, r.Capacity)
	for _, m := range r.Members {
		status := "waiting"
		if m.Ready {
			status = "ready"
		}
		fmt.Fprintf(o.w, "  - %s %s\n", m.PlayerID, status)
	}
}
