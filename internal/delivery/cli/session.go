package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/humanbelnik/kinoswap/matchclient/internal/app"
	"github.com/humanbelnik/kinoswap/matchclient/internal/delivery/tui"
	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	"github.com/spf13/cobra"
)

var (
	genres     []string
	startGroup bool
)

var soloCmd = &cobra.Command{
	Use:   "solo",
	Short: "Start a session on your own and swipe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a := loadApp(ctx)
		session, err := a.Match.CreateSolo(ctx, genres)
		if err != nil {
			return err
		}
		return swipe(ctx, a, session.ID, bufio.NewReader(os.Stdin))
	},
}

var groupCmd = &cobra.Command{
	Use:   "group <group_id>",
	Short: "Open a session for a group and share its join code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("group id must be a number: %w", err)
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a := loadApp(ctx)
		session, err := a.Match.CreateGroup(ctx, groupID, genres)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session %s created. Join code: %d\n", session.ID, joincode.Encode(groupID))

		in := bufio.NewReader(os.Stdin)
		if !startGroup {
			fmt.Fprint(cmd.OutOrStdout(), "Press Enter once everyone has joined to start matching...")
			if _, err := in.ReadString('\n'); err != nil {
				return err
			}
		}
		if err := a.Match.Start(ctx, session.ID); err != nil {
			return err
		}
		return swipe(ctx, a, session.ID, in)
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <code>",
	Short: "Join the active session of a group by its code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return joincode.ErrInvalidCode
		}

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a := loadApp(ctx)
		session, err := a.Match.JoinByCode(ctx, code, genres)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Joined session %s. Waiting for the owner to start...\n", session.ID)
		return swipe(ctx, a, session.ID, bufio.NewReader(os.Stdin))
	},
}

func swipe(ctx context.Context, a *app.App, sessionID model.ID, in *bufio.Reader) error {
	c, _ := a.Registry.Acquire(sessionID)
	defer a.Registry.Release(sessionID)

	if err := c.Start(ctx); err != nil {
		return err
	}
	_, err := tui.New(in, os.Stdout).Run(ctx, c)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	for _, cmd := range []*cobra.Command{soloCmd, groupCmd, joinCmd} {
		cmd.Flags().StringSliceVarP(&genres, "genres", "g", nil, "preferred genres, comma separated")
		rootCmd.AddCommand(cmd)
	}
	groupCmd.Flags().BoolVar(&startGroup, "start", false, "start matching right away")
}
