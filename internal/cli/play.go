package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/deadnumber/internal/model"
	"github.com/mcoot/deadnumber/internal/protocol"
	"github.com/mcoot/deadnumber/internal/services/game"
)

// MaxCallPerTurn bounds how many numbers the client lets a player call at once
const MaxCallPerTurn = 3

// ErrQuit is returned by Translate when the user asks to leave
var ErrQuit = errors.New("quit")

const playHelp = `Commands:
  rooms              list rooms
  create <name>      create a room and sit in it
  join <id>          join a room
  leave              leave your room
  ready / unready    toggle ready
  call <1-3>         call that many numbers
  pass               skip your turn (once per game)
  return             reverse direction (once per game)
  restart            abandon the game and return to waiting
  raw <line>         send a raw protocol line
  help               show this help
  quit               disconnect`

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Log in and play interactively",
		Long:  "Log in over TCP and read commands from stdin.\n\n" + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Username == "" || cfg.Password == "" {
				return errors.New("username and password are required (--user/--password or DNCLIENT_USER/DNCLIENT_PASSWORD)")
			}

			conn, err := Dial(cmd.Context(), cfg.Addr, cfg.Timeout)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			return Play(conn, cfg.Username, cfg.Password, cfg.Timeout, cmd.InOrStdin(), out)
		},
	}

	cmd.Flags().StringVarP(&cfg.Username, "user", "u", cfg.Username, "Username (env: DNCLIENT_USER)")
	cmd.Flags().StringVarP(&cfg.Password, "password", "p", cfg.Password, "Password (env: DNCLIENT_PASSWORD)")

	return cmd
}

// Play logs in on conn, then relays commands from in and prints every
// server line until the user quits, input ends or the server disconnects
func Play(conn *LineConn, username, password string, timeout time.Duration, in io.Reader, out *Output) error {
	if err := conn.Send(protocol.Login(username, password)); err != nil {
		return err
	}
	first, err := conn.ReadUntil(timeout, protocol.TypeLoginSuccess, protocol.TypeLoginFail, protocol.TypeError)
	if err != nil {
		return fmt.Errorf("no login response: %w", err)
	}
	if !strings.HasPrefix(first, protocol.TypeLoginSuccess) {
		return fmt.Errorf("login rejected: %s", RenderLine(first))
	}
	user := model.PlayerID(protocol.Split(first).Arg(0))
	out.Print(toServerLine(first))

	serverDone := make(chan error, 1)
	go func() {
		for {
			line, err := conn.ReadLine()
			if err != nil {
				serverDone <- err
				return
			}
			out.Print(toServerLine(line))
		}
	}()

	inputDone := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line, err := Translate(scanner.Text(), user)
			switch {
			case errors.Is(err, ErrQuit):
				inputDone <- nil
				return
			case err != nil:
				out.PrintMessage(err.Error())
				continue
			case line == "":
				continue
			}
			if err := conn.Send(line); err != nil {
				inputDone <- err
				return
			}
		}
		inputDone <- scanner.Err()
	}()

	select {
	case err := <-inputDone:
		return err
	case err := <-serverDone:
		if errors.Is(err, io.EOF) {
			out.PrintMessage("server closed the connection")
			return nil
		}
		return err
	}
}

// Translate converts one line of user input into a protocol line. An empty
// result with a nil error means there is nothing to send.
func Translate(input string, user model.PlayerID) (string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return "", ErrQuit
	case "help":
		return "", errors.New(playHelp)
	case "rooms":
		return protocol.GetRooms(), nil
	case "create":
		if rest == "" {
			return "", errors.New("usage: create <name>")
		}
		return protocol.CreateRoom(rest), nil
	case "join":
		if len(fields) != 2 {
			return "", errors.New("usage: join <id>")
		}
		return protocol.JoinRoom(model.RoomID(fields[1])), nil
	case "leave":
		return protocol.LeaveRoom(), nil
	case "ready":
		return protocol.Ready(), nil
	case "unready":
		return protocol.CancelReady(), nil
	case "call":
		if len(fields) != 2 {
			return "", errors.New("usage: call <1-3>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > MaxCallPerTurn {
			return "", fmt.Errorf("you can call between 1 and %d numbers", MaxCallPerTurn)
		}
		return protocol.Action(game.Call(user, n)), nil
	case "pass":
		return protocol.Action(game.Pass(user)), nil
	case "return":
		return protocol.Action(game.Return(user)), nil
	case "restart":
		return protocol.Restart(), nil
	case "raw":
		if rest == "" {
			return "", errors.New("usage: raw <line>")
		}
		return rest, nil
	default:
		return "", fmt.Errorf("unknown command %q, type help", fields[0])
	}
}

func toServerLine(line string) ServerLine {
	msg := protocol.Split(line)
	return ServerLine{Type: msg.Type, Args: msg.Args, Raw: line}
}
