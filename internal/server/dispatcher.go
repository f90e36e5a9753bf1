package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/mcoot/deadnumber/internal/dependencies/clock"
	"github.com/mcoot/deadnumber/internal/dependencies/random"
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/protocol"
	"github.com/mcoot/deadnumber/internal/services/account"
	"github.com/mcoot/deadnumber/internal/services/game"
	"github.com/mcoot/deadnumber/internal/services/room"
)

// ErrHandlerPanic is returned by Handle when processing a line panicked
var ErrHandlerPanic = errors.New("line handler panicked")

// DispatcherConfig holds tunables for the dispatcher
type DispatcherConfig struct {
	// TurnTimeout is how long the current player has to act before the
	// server calls one number on their behalf
	TurnTimeout time.Duration
}

// DefaultDispatcherConfig returns default dispatcher configuration
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		TurnTimeout: 15 * time.Second,
	}
}

// Dispatcher is the single serialized entry point for every inbound line,
// every disconnect and every watchdog firing. All account online flags,
// rooms and engines are mutated only while its lock is held.
type Dispatcher struct {
	accounts *account.Directory
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	turnTimeout time.Duration

	mu       sync.Mutex
	rooms    *room.Registry
	sessions map[*Session]struct{}
	players  map[model.PlayerID]*Session
}

// NewDispatcher creates a dispatcher over the given account directory and room registry
func NewDispatcher(
	accounts *account.Directory,
	rooms *room.Registry,
	clock clock.Clock,
	random random.Random,
	cfg DispatcherConfig,
	logger *slog.Logger,
) *Dispatcher {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultDispatcherConfig().TurnTimeout
	}
	return &Dispatcher{
		accounts:    accounts,
		rooms:       rooms,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "dispatcher")),
		turnTimeout: cfg.TurnTimeout,
		sessions:    make(map[*Session]struct{}),
		players:     make(map[model.PlayerID]*Session),
	}
}

// Connect registers a new, unbound session
func (d *Dispatcher) Connect(sess *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sessions[sess] = struct{}{}
	d.logger.Info("session connected",
		slog.String("session_id", sess.ID()),
		slog.String("remote", sess.Remote()),
	)
}

// Disconnect logs the session's identity out and removes it from its room,
// running the same cascade as LEAVE_ROOM
func (d *Dispatcher) Disconnect(ctx context.Context, sess *Session) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.sessions[sess]; !ok {
		return
	}
	delete(d.sessions, sess)

	if player := sess.player; player != "" {
		d.leaveRoom(player)
		d.accounts.Logout(player)
		delete(d.players, player)
		sess.player = ""
	}

	d.logger.Info("session disconnected", slog.String("session_id", sess.ID()))
}

// Handle processes one inbound line from sess. A panic while handling is
// recovered and reported as ErrHandlerPanic so the caller can drop the session.
func (d *Dispatcher) Handle(ctx context.Context, sess *Session, line string) (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("session_id", sess.ID()),
			)
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	d.dispatch(ctx, sess, line)
	return nil
}

// Rooms returns a snapshot of every live room ordered by id
func (d *Dispatcher) Rooms() []model.RoomSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rooms.Summaries()
}

// SessionCount returns the number of connected sessions
func (d *Dispatcher) SessionCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// Close cancels every pending watchdog and closes every session's outbound queue
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rooms.Close()
	for sess := range d.sessions {
		_ = sess.Close()
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, sess *Session, line string) {
	msg := protocol.Split(line)

	switch msg.Type {
	case protocol.TypeLogin:
		d.handleLogin(ctx, sess, msg)
	case protocol.TypeRegister:
		d.handleRegister(ctx, sess, msg)
	case protocol.TypeGetRooms:
		d.handleGetRooms(sess)
	case protocol.TypeCreateRoom, protocol.TypeJoinRoom, protocol.TypeLeaveRoom,
		protocol.TypeReady, protocol.TypeCancelReady, protocol.TypeAction, protocol.TypeRestart:
		if sess.player == "" {
			sess.Send(protocol.Error(protocol.ReasonNotLoggedIn))
			return
		}
		d.dispatchRoomCommand(sess, msg, line)
	default:
		d.logger.Debug("unknown message type dropped",
			slog.String("session_id", sess.ID()),
			slog.String("type", msg.Type),
		)
	}
}

func (d *Dispatcher) dispatchRoomCommand(sess *Session, msg protocol.Message, line string) {
	switch msg.Type {
	case protocol.TypeCreateRoom:
		d.handleCreateRoom(sess, msg)
	case protocol.TypeJoinRoom:
		d.handleJoinRoom(sess, msg)
	case protocol.TypeLeaveRoom:
		d.handleLeaveRoom(sess)
	case protocol.TypeReady:
		d.handleReady(sess, true)
	case protocol.TypeCancelReady:
		d.handleReady(sess, false)
	case protocol.TypeAction:
		d.handleAction(sess.player, line)
	case protocol.TypeRestart:
		d.handleRestart(sess)
	}
}

// errorReason maps a domain error to its ERROR reason
func errorReason(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomFull):
		return protocol.ReasonRoomFull
	case errors.Is(err, model.ErrRoomNotFound):
		return protocol.ReasonRoomNotFound
	case errors.Is(err, model.ErrGameInProgress):
		return protocol.ReasonGameInProgress
	case errors.Is(err, model.ErrAlreadyInRoom):
		return protocol.ReasonAlreadyInRoom
	case errors.Is(err, model.ErrNotInRoom):
		return protocol.ReasonNotInRoom
	case errors.Is(err, model.ErrAlreadyOnline):
		return protocol.ReasonAlreadyLoggedIn
	default:
		return protocol.ReasonInvalidRequest
	}
}

// broadcastAll sends a line to every connected session
func (d *Dispatcher) broadcastAll(line string) {
	for sess := range d.sessions {
		sess.Send(line)
	}
}

// broadcastLobby sends a line to every session not seated in a room
func (d *Dispatcher) broadcastLobby(line string) {
	for sess := range d.sessions {
		if sess.player != "" {
			if _, seated := d.rooms.FindByPlayer(sess.player); seated {
				continue
			}
		}
		sess.Send(line)
	}
}

// broadcastRoom sends a line to every member of r
func (d *Dispatcher) broadcastRoom(r *room.Room, line string) {
	for _, id := range r.Members() {
		if sess, ok := d.players[id]; ok {
			sess.Send(line)
		}
	}
}

func (d *Dispatcher) broadcastRoomStatus(r *room.Room) {
	d.broadcastRoom(r, protocol.RoomStatus(r.Name(), r.Status()))
}

// broadcastUpdate sends each member the snapshot masked for them
func (d *Dispatcher) broadcastUpdate(r *room.Room) {
	eng := r.Engine()
	if eng == nil {
		return
	}
	for _, id := range r.Members() {
		if sess, ok := d.players[id]; ok {
			sess.Send(protocol.Update(eng.View(id)))
		}
	}
}

func (d *Dispatcher) newRoomLine(r *room.Room) string {
	return protocol.NewRoom(r.ID(), r.Name(), r.MemberCount())
}

// armWatchdog (re)starts the turn timer of r
func (d *Dispatcher) armWatchdog(r *room.Room) {
	roomID := r.ID()
	r.StartTimeoutWatchdog(d.clock, d.turnTimeout, func(seq uint64) {
		d.handleTimeout(roomID, seq)
	})
}

// handleTimeout runs on the clock's goroutine. It re-enters through the
// dispatcher lock and discards firings superseded by a newer arm.
func (d *Dispatcher) handleTimeout(roomID model.RoomID, seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, err := d.rooms.Get(roomID)
	if err != nil || !r.WatchdogArmed(seq) {
		return
	}
	eng := r.Engine()
	if eng == nil {
		return
	}

	current := eng.Current()
	d.logger.Info("turn timed out",
		slog.String("room_id", string(roomID)),
		slog.String("player", string(current)),
	)
	d.handleAction(model.SystemPlayer, protocol.Action(game.Call(current, 1)))
}

// finishIfWon broadcasts WINNER and tears the game down once one player remains
func (d *Dispatcher) finishIfWon(r *room.Room) bool {
	eng := r.Engine()
	if eng == nil {
		return false
	}
	winner, over := eng.Winner()
	if !over {
		return false
	}

	d.broadcastRoom(r, protocol.Winner(winner, eng.Eliminations()))
	r.EndGame()
	d.broadcastRoomStatus(r)
	d.logger.Info("game finished",
		slog.String("room_id", string(r.ID())),
		slog.String("winner", string(winner)),
	)
	return true
}

// leaveRoom removes player from their room, destroying it when empty. A
// participant leaving a running game forfeits it.
func (d *Dispatcher) leaveRoom(player model.PlayerID) bool {
	r, destroyed, err := d.rooms.Leave(player)
	if err != nil {
		return false
	}

	if destroyed {
		d.logger.Info("room closed", slog.String("room_id", string(r.ID())))
	} else {
		d.broadcastRoomStatus(r)
		if eng := r.Engine(); eng != nil && eng.IsParticipant(player) {
			changed, _ := eng.Forfeit(player)
			if !d.finishIfWon(r) {
				d.broadcastUpdate(r)
				if changed {
					d.armWatchdog(r)
				}
			}
		}
	}

	d.broadcastLobby(d.newRoomLine(r))
	return true
}
