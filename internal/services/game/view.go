package game

import "github.com/mcoot/deadnumber/internal/model"

// SeatView is one participant as seen by a particular viewer
type SeatView struct {
	ID        model.PlayerID
	Alive     bool
	Trap      int
	TrapKnown bool
}

// View is the synchronization snapshot sent to a single recipient
type View struct {
	Number     int
	Direction  model.Direction
	Current    model.PlayerID
	Seats      []SeatView
	Round      int
	ReturnLeft int
	PassLeft   int
}

// View builds the snapshot for viewer. The viewer's own trap is hidden and
// the credits shown are the viewer's own (zero for non-participants).
func (e *Engine) View(viewer model.PlayerID) View {
	v := View{
		Number:    e.number,
		Direction: e.direction,
		Current:   e.Current(),
		Round:     e.round,
		Seats:     make([]SeatView, len(e.players)),
	}

	for i, p := range e.players {
		seat := SeatView{ID: p.ID, Alive: p.Alive}
		if p.ID == viewer {
			v.ReturnLeft = p.ReturnLeft
			v.PassLeft = p.PassLeft
		} else {
			seat.Trap = p.Trap
			seat.TrapKnown = true
		}
		v.Seats[i] = seat
	}
	return v
}
