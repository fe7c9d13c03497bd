package cli

import (
	"fmt"
	"strconv"

	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
	"github.com/spf13/cobra"
)

var joincodeCmd = &cobra.Command{
	Use:   "joincode <group_id>",
	Short: "Print the join code of a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("group id must be a number: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), joincode.Encode(groupID))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Print the group id behind a join code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := joincode.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), groupID)
		return nil
	},
}

func init() {
	joincodeCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(joincodeCmd)
}
