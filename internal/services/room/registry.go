package room

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mcoot/deadnumber/internal/model"
)

// Registry owns every live room and the player to room index.
// It is not safe for concurrent use; callers serialize access.
type Registry struct {
	cfg      Config
	rooms    map[model.RoomID]*Room
	byPlayer map[model.PlayerID]model.RoomID
	nextSeq  int
}

// NewRegistry creates an empty registry
func NewRegistry(cfg Config) *Registry {
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.MinPlayers == 0 {
		cfg.MinPlayers = DefaultConfig().MinPlayers
	}
	return &Registry{
		cfg:      cfg,
		rooms:    make(map[model.RoomID]*Room),
		byPlayer: make(map[model.PlayerID]model.RoomID),
	}
}

// Config returns the room configuration applied to new rooms
func (g *Registry) Config() Config {
	return g.cfg
}

// Create allocates the next room id and seats the creator in the new room.
// Ids are never reused within a process.
func (g *Registry) Create(name string, creator model.PlayerID) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "|\r\n") {
		return nil, model.ErrInvalidRoomName
	}
	if _, ok := g.byPlayer[creator]; ok {
		return nil, model.ErrAlreadyInRoom
	}

	g.nextSeq++
	r := New(model.FormatRoomID(g.nextSeq), name, g.cfg)
	if err := r.AddMember(creator); err != nil {
		return nil, err
	}
	g.rooms[r.id] = r
	g.byPlayer[creator] = r.id
	return r, nil
}

// Get returns a room by id
func (g *Registry) Get(id model.RoomID) (*Room, error) {
	r, ok := g.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return r, nil
}

// FindByPlayer returns the room the player is seated in
func (g *Registry) FindByPlayer(id model.PlayerID) (*Room, bool) {
	roomID, ok := g.byPlayer[id]
	if !ok {
		return nil, false
	}
	r, ok := g.rooms[roomID]
	return r, ok
}

// Join seats a player in an existing room
func (g *Registry) Join(id model.RoomID, player model.PlayerID) (*Room, error) {
	if _, ok := g.byPlayer[player]; ok {
		return nil, model.ErrAlreadyInRoom
	}
	r, err := g.Get(id)
	if err != nil {
		return nil, err
	}
	if err := r.AddMember(player); err != nil {
		return nil, err
	}
	g.byPlayer[player] = id
	return r, nil
}

// Leave removes a player from their room. An emptied room is destroyed and
// its watchdog cancelled; destroyed reports whether that happened.
func (g *Registry) Leave(player model.PlayerID) (r *Room, destroyed bool, err error) {
	r, ok := g.FindByPlayer(player)
	if !ok {
		return nil, false, model.ErrNotInRoom
	}
	empty, err := r.RemoveMember(player)
	if err != nil {
		return nil, false, err
	}
	delete(g.byPlayer, player)

	if empty {
		r.CancelTimeoutWatchdog()
		r.engine = nil
		delete(g.rooms, r.id)
	}
	return r, empty, nil
}

// All returns every live room ordered by id
func (g *Registry) All() []*Room {
	out := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *Room) int {
		if c := cmp.Compare(len(a.id), len(b.id)); c != 0 {
			return c
		}
		return strings.Compare(string(a.id), string(b.id))
	})
	return out
}

// Summaries returns the lobby view of every live room ordered by id
func (g *Registry) Summaries() []model.RoomSummary {
	rooms := g.All()
	out := make([]model.RoomSummary, len(rooms))
	for i, r := range rooms {
		out[i] = r.Summary()
	}
	return out
}

// Len returns the number of live rooms
func (g *Registry) Len() int {
	return len(g.rooms)
}

// Close cancels every pending watchdog
func (g *Registry) Close() {
	for _, r := range g.rooms {
		r.CancelTimeoutWatchdog()
	}
}
