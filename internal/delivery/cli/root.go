// Package cli holds the matchclient commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/humanbelnik/kinoswap/matchclient/internal/app"
	"github.com/humanbelnik/kinoswap/matchclient/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "matchclient",
	Short: "Swipe through movies with friends and find a match",
	Long: `matchclient joins solo or group matching sessions, deals the
session's movies one by one for swiping, submits the votes and shows the
match once every participant is done. "serve" exposes the same flow to a
local UI over HTTP and websockets.`,
	SilenceUsage: true,
}

func Execute() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree and releases the application whether or
// not the command succeeded.
func run() error {
	defer closeApp()
	return rootCmd.Execute()
}

func closeApp() {
	if application != nil {
		application.Close()
		application = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file to load (default is ./.env)")
}

// loadApp wires the application on first use; commands that only compute
// locally never touch the network or the stores.
func loadApp(ctx context.Context) *app.App {
	if application == nil {
		application = app.New(ctx, config.Load(cfgFile))
	}
	return application
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
