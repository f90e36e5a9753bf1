package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/deadnumber/internal/dependencies/random"
	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/protocol"
	"github.com/mcoot/deadnumber/internal/services/bot"
)

// BotOptions controls a headless bot session
type BotOptions struct {
	Username string
	Password string
	// Room joins an existing room; Create makes a new one instead
	Room   string
	Create string
	// Games stops the bot after that many finished games, 0 plays forever
	Games    int
	Strategy bot.Strategy
	Timeout  time.Duration
}

func newBotCmd() *cobra.Command {
	var (
		opts     BotOptions
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Log in and play automatically",
		Long: `Log in over TCP, sit in a room and play every turn automatically.

The random strategy calls 1 to 3 numbers at random. The cautious strategy
only calls numbers it has already survived and spends its pass and return
before taking a risk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Username = cfg.Username
			opts.Password = cfg.Password
			opts.Timeout = cfg.Timeout
			if opts.Username == "" || opts.Password == "" {
				return errors.New("username and password are required (--user/--password or DNCLIENT_USER/DNCLIENT_PASSWORD)")
			}
			if (opts.Room == "") == (opts.Create == "") {
				return errors.New("exactly one of --room or --create is required")
			}

			switch strategy {
			case "random":
				opts.Strategy = bot.NewRandomStrategy(random.New())
			case "cautious":
				opts.Strategy = bot.NewCautiousStrategy()
			default:
				return fmt.Errorf("unknown strategy %q", strategy)
			}

			conn, err := Dial(cmd.Context(), cfg.Addr, cfg.Timeout)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			return RunBot(cmd.Context(), conn, opts, logger)
		},
	}

	cmd.Flags().StringVarP(&cfg.Username, "user", "u", cfg.Username, "Username (env: DNCLIENT_USER)")
	cmd.Flags().StringVarP(&cfg.Password, "password", "p", cfg.Password, "Password (env: DNCLIENT_PASSWORD)")
	cmd.Flags().StringVar(&opts.Room, "room", "", "Room ID to join")
	cmd.Flags().StringVar(&opts.Create, "create", "", "Name of a room to create")
	cmd.Flags().IntVar(&opts.Games, "games", 0, "Stop after this many games (0 = forever)")
	cmd.Flags().StringVar(&strategy, "strategy", "random", "Strategy: random, cautious")

	return cmd
}

// RunBot logs in on conn, takes a seat and plays until ctx is cancelled, the
// server disconnects or opts.Games games have finished
func RunBot(ctx context.Context, conn *LineConn, opts BotOptions, logger *slog.Logger) error {
	if err := conn.Send(protocol.Login(opts.Username, opts.Password)); err != nil {
		return err
	}
	first, err := conn.ReadUntil(opts.Timeout, protocol.TypeLoginSuccess, protocol.TypeLoginFail, protocol.TypeError)
	if err != nil {
		return fmt.Errorf("no login response: %w", err)
	}
	if !strings.HasPrefix(first, protocol.TypeLoginSuccess) {
		return fmt.Errorf("login rejected: %s", RenderLine(first))
	}
	id := model.PlayerID(protocol.Split(first).Arg(0))
	player := bot.NewPlayer(id, opts.Strategy, true, logger)

	seat := protocol.JoinRoom(model.RoomID(opts.Room))
	if opts.Create != "" {
		seat = protocol.CreateRoom(opts.Create)
	}
	if err := conn.Send(seat); err != nil {
		return err
	}
	seated, err := conn.ReadUntil(opts.Timeout, protocol.TypeRoomStatus, protocol.TypeError)
	if err != nil {
		return fmt.Errorf("no room response: %w", err)
	}
	if strings.HasPrefix(seated, protocol.TypeError) {
		return fmt.Errorf("could not take a seat: %s", RenderLine(seated))
	}
	logger.Info("seated", slog.String("player", string(id)))

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	games := 0
	line := seated
	for {
		for _, reply := range player.Handle(line) {
			if err := conn.Send(reply); err != nil {
				return err
			}
		}

		if protocol.Split(line).Type == protocol.TypeWinner {
			games++
			if opts.Games > 0 && games >= opts.Games {
				return nil
			}
		}

		line, err = conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}
	}
}
