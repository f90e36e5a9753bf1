package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/deadnumber/internal/protocol"
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Password == "" {
				return errors.New("password is required (--password or DNCLIENT_PASSWORD)")
			}

			conn, err := Dial(cmd.Context(), cfg.Addr, cfg.Timeout)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := conn.Send(protocol.Register(args[0], cfg.Password)); err != nil {
				return err
			}
			line, err := conn.ReadUntil(cfg.Timeout, protocol.TypeRegisterResult)
			if err != nil {
				return fmt.Errorf("no registration result: %w", err)
			}

			result := protocol.Split(line).Arg(0)
			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			switch result {
			case protocol.RegisterSuccess:
				out.PrintMessage(fmt.Sprintf("Registered %s", args[0]))
				return nil
			case protocol.RegisterExists:
				return fmt.Errorf("username %s is already taken", args[0])
			default:
				return errors.New("registration rejected by server")
			}
		},
	}

	cmd.Flags().StringVarP(&cfg.Password, "password", "p", cfg.Password, "Password (env: DNCLIENT_PASSWORD)")

	return cmd
}
