package cli

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP/websocket bridge",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		return loadApp(ctx).Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
