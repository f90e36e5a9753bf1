package room

import (
	"slices"
	"time"

	"github.com/mcoot/deadnumber/internal/dependencies/clock"
	"github.com/mcoot/deadnumber/internal/dependencies/random"
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// Config holds the seating limits applied to every room
type Config struct {
	// Capacity is the maximum number of members
	Capacity int
	// MinPlayers is the number of ready members required to start a game
	MinPlayers int
}

// DefaultConfig returns the default room configuration
func DefaultConfig() Config {
	return Config{
		Capacity:   4,
		MinPlayers: 2,
	}
}

// Room is a named group of up to Capacity members that plays one game at a
// time. It is not safe for concurrent use; callers serialize access.
type Room struct {
	id   model.RoomID
	name string
	cfg  Config

	members []model.PlayerID
	ready   map[model.PlayerID]bool
	engine  *game.Engine

	watchdog    clock.Timer
	watchdogSeq uint64
}

// New creates an empty room
func New(id model.RoomID, name string, cfg Config) *Room {
	return &Room{
		id:    id,
		name:  name,
		cfg:   cfg,
		ready: make(map[model.PlayerID]bool),
	}
}

// ID returns the room id
func (r *Room) ID() model.RoomID { return r.id }

// Name returns the display name
func (r *Room) Name() string { return r.name }

// MemberCount returns the number of members
func (r *Room) MemberCount() int { return len(r.members) }

// Members returns the member ids in seating order
func (r *Room) Members() []model.PlayerID {
	return slices.Clone(r.members)
}

// HasMember reports whether the player is seated in this room
func (r *Room) HasMember(id model.PlayerID) bool {
	return slices.Contains(r.members, id)
}

// AddMember seats a player at the end of the table, not ready
func (r *Room) AddMember(id model.PlayerID) error {
	if r.HasMember(id) {
		return model.ErrAlreadyInRoom
	}
	if r.engine != nil {
		return model.ErrGameInProgress
	}
	if len(r.members) >= r.cfg.Capacity {
		return model.ErrRoomFull
	}
	r.members = append(r.members, id)
	r.ready[id] = false
	return nil
}

// RemoveMember removes a player and reports whether the room is now empty
func (r *Room) RemoveMember(id model.PlayerID) (bool, error) {
	idx := slices.Index(r.members, id)
	if idx < 0 {
		return false, model.ErrNotInRoom
	}
	r.members = slices.Delete(r.members, idx, idx+1)
	delete(r.ready, id)
	return len(r.members) == 0, nil
}

// SetReady sets a member's ready flag
func (r *Room) SetReady(id model.PlayerID, ready bool) error {
	if !r.HasMember(id) {
		return model.ErrNotInRoom
	}
	r.ready[id] = ready
	return nil
}

// ResetAllReady clears every member's ready flag
func (r *Room) ResetAllReady() {
	for id := range r.ready {
		r.ready[id] = false
	}
}

// IsAllReady reports whether enough members are seated and all are ready
func (r *Room) IsAllReady() bool {
	if len(r.members) < r.cfg.MinPlayers {
		return false
	}
	for _, id := range r.members {
		if !r.ready[id] {
			return false
		}
	}
	return true
}

// Status returns the members with their ready flags in seating order
func (r *Room) Status() []model.RoomMember {
	out := make([]model.RoomMember, len(r.members))
	for i, id := range r.members {
		out[i] = model.RoomMember{PlayerID: id, Ready: r.ready[id]}
	}
	return out
}

// State reports whether a game is running
func (r *Room) State() model.RoomState {
	if r.engine != nil {
		return model.RoomStateInGame
	}
	return model.RoomStateWaiting
}

// Summary returns the lobby-facing view of the room
func (r *Room) Summary() model.RoomSummary {
	return model.RoomSummary{
		ID:          r.id,
		Name:        r.name,
		MemberCount: len(r.members),
		Capacity:    r.cfg.Capacity,
		State:       r.State(),
		Members:     r.Status(),
	}
}

// Engine returns the running game, or nil
func (r *Room) Engine() *game.Engine { return r.engine }

// StartGame creates the engine with the members in seating order
func (r *Room) StartGame(rnd random.Random) (*game.Engine, error) {
	if r.engine != nil {
		return nil, model.ErrGameInProgress
	}
	if !r.IsAllReady() {
		return nil, model.ErrNotEnoughReady
	}
	engine, err := game.NewEngine(r.Members(), rnd)
	if err != nil {
		return nil, err
	}
	r.engine = engine
	return engine, nil
}

// EndGame discards the engine, cancels the watchdog and returns every
// member to the not-ready state
func (r *Room) EndGame() {
	r.CancelTimeoutWatchdog()
	r.engine = nil
	r.ResetAllReady()
}

// StartTimeoutWatchdog arms the turn timer, replacing any pending one.
// onTimeout receives the sequence number of the arm that fired; compare it
// with WatchdogArmed to discard firings that raced with a re-arm.
func (r *Room) StartTimeoutWatchdog(clk clock.Clock, d time.Duration, onTimeout func(seq uint64)) uint64 {
	r.CancelTimeoutWatchdog()
	seq := r.watchdogSeq
	r.watchdog = clk.AfterFunc(d, func() { onTimeout(seq) })
	return seq
}

// CancelTimeoutWatchdog stops the pending turn timer, if any
func (r *Room) CancelTimeoutWatchdog() {
	if r.watchdog != nil {
		r.watchdog.Stop()
		r.watchdog = nil
	}
	r.watchdogSeq++
}

// WatchdogArmed reports whether seq identifies the currently pending timer
func (r *Room) WatchdogArmed(seq uint64) bool {
	return r.watchdog != nil && r.watchdogSeq == seq
}
