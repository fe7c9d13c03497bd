package cli

import (
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored bearer token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the bearer token used for every request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadApp(cmd.Context()).Credentials.SetToken(cmd.Context(), args[0])
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadApp(cmd.Context()).Credentials.ClearToken(cmd.Context())
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
