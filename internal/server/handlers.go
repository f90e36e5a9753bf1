package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/protocol"
)

func (d *Dispatcher) handleLogin(ctx context.Context, sess *Session, msg protocol.Message) {
	if sess.player != "" {
		sess.Send(protocol.Error(protocol.ReasonAlreadyLoggedIn))
		return
	}

	id, err := d.accounts.Login(ctx, msg.Arg(0), msg.Arg(1))
	switch {
	case errors.Is(err, model.ErrAlreadyOnline):
		sess.Send(protocol.Error(protocol.ReasonAlreadyLoggedIn))
		return
	case err != nil:
		sess.Send(protocol.LoginFail())
		return
	}

	sess.player = id
	d.players[id] = sess
	sess.Send(protocol.LoginSuccess(id))
	for _, r := range d.rooms.All() {
		sess.Send(d.newRoomLine(r))
	}
}

func (d *Dispatcher) handleRegister(ctx context.Context, sess *Session, msg protocol.Message) {
	err := d.accounts.Register(ctx, msg.Arg(0), msg.Arg(1))
	switch {
	case err == nil:
		sess.Send(protocol.RegisterResult(protocol.RegisterSuccess))
	case errors.Is(err, model.ErrAlreadyExists):
		sess.Send(protocol.RegisterResult(protocol.RegisterExists))
	default:
		d.logger.Debug("registration failed",
			slog.String("session_id", sess.ID()),
			slog.String("error", err.Error()),
		)
		sess.Send(protocol.RegisterResult(protocol.RegisterError))
	}
}

func (d *Dispatcher) handleGetRooms(sess *Session) {
	for _, r := range d.rooms.All() {
		sess.Send(d.newRoomLine(r))
	}
}

func (d *Dispatcher) handleCreateRoom(sess *Session, msg protocol.Message) {
	r, err := d.rooms.Create(msg.Arg(0), sess.player)
	if err != nil {
		sess.Send(protocol.Error(errorReason(err)))
		return
	}

	sess.Send(protocol.CreateSuccess(r.ID(), r.Name()))
	d.broadcastAll(d.newRoomLine(r))
	d.broadcastRoomStatus(r)

	d.logger.Info("room created",
		slog.String("room_id", string(r.ID())),
		slog.String("player", string(sess.player)),
	)
}

func (d *Dispatcher) handleJoinRoom(sess *Session, msg protocol.Message) {
	r, err := d.rooms.Join(model.RoomID(msg.Arg(0)), sess.player)
	if err != nil {
		sess.Send(protocol.Error(errorReason(err)))
		return
	}

	d.broadcastRoomStatus(r)
	d.broadcastLobby(d.newRoomLine(r))

	d.logger.Info("room joined",
		slog.String("room_id", string(r.ID())),
		slog.String("player", string(sess.player)),
	)
}

func (d *Dispatcher) handleLeaveRoom(sess *Session) {
	if !d.leaveRoom(sess.player) {
		sess.Send(protocol.Error(protocol.ReasonNotInRoom))
		return
	}
	sess.Send(protocol.LeaveSuccess())
}

func (d *Dispatcher) handleReady(sess *Session, ready bool) {
	r, ok := d.rooms.FindByPlayer(sess.player)
	if !ok {
		sess.Send(protocol.Error(protocol.ReasonNotInRoom))
		return
	}
	if r.Engine() != nil {
		d.logger.Debug("ready change ignored during game", slog.String("room_id", string(r.ID())))
		return
	}

	if err := r.SetReady(sess.player, ready); err != nil {
		d.logger.Warn("failed to set ready",
			slog.String("room_id", string(r.ID())),
			slog.String("player", string(sess.player)),
			slog.String("error", err.Error()),
		)
		sess.Send(protocol.Error(protocol.ReasonNotInRoom))
		return
	}
	d.broadcastRoomStatus(r)

	if !r.IsAllReady() {
		return
	}
	if _, err := r.StartGame(d.random); err != nil {
		d.logger.Error("failed to start game",
			slog.String("room_id", string(r.ID())),
			slog.String("error", err.Error()),
		)
		return
	}

	d.logger.Info("game started",
		slog.String("room_id", string(r.ID())),
		slog.Int("players", r.MemberCount()),
	)
	d.broadcastUpdate(r)
	d.armWatchdog(r)
}

// handleAction applies an ACTION line. sender is the bound identity of the
// originating session, or model.SystemPlayer for injected timeouts.
func (d *Dispatcher) handleAction(sender model.PlayerID, line string) {
	cmd, err := protocol.ParseAction(line)
	if err != nil {
		d.logger.Debug("action dropped", slog.String("error", err.Error()))
		return
	}
	if sender != model.SystemPlayer && cmd.Player != sender {
		d.logger.Warn("action for another player dropped",
			slog.String("sender", string(sender)),
			slog.String("actor", string(cmd.Player)),
		)
		return
	}

	r, ok := d.rooms.FindByPlayer(cmd.Player)
	if !ok || r.Engine() == nil {
		d.logger.Debug("action outside a game dropped", slog.String("actor", string(cmd.Player)))
		return
	}

	if err := r.Engine().Apply(cmd); err != nil {
		d.logger.Debug("action rejected",
			slog.String("room_id", string(r.ID())),
			slog.String("actor", string(cmd.Player)),
			slog.String("kind", cmd.Kind.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	if d.finishIfWon(r) {
		return
	}
	d.broadcastUpdate(r)
	d.armWatchdog(r)
}

func (d *Dispatcher) handleRestart(sess *Session) {
	r, ok := d.rooms.FindByPlayer(sess.player)
	if !ok {
		sess.Send(protocol.Error(protocol.ReasonNotInRoom))
		return
	}

	r.EndGame()
	d.broadcastRoomStatus(r)

	d.logger.Info("room restarted", slog.String("room_id", string(r.ID())))
}
