package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/humanbelnik/kinoswap/matchclient/internal/app"
	"github.com/humanbelnik/kinoswap/matchclient/internal/config"
	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestJoincodeCommand(t *testing.T) {
	out, err := execute(t, "joincode", "3")
	require.NoError(t, err)
	assert.Equal(t, "34\n", out)

	out, err = execute(t, "joincode", "decode", "34")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = execute(t, "joincode", "decode", "35")
	assert.ErrorIs(t, err, joincode.ErrInvalidCode)

	_, err = execute(t, "joincode", "abc")
	assert.Error(t, err)
}

func TestRunClosesAppOnFailure(t *testing.T) {
	var coordinator *usecase_swipe.Coordinator
	failing := &cobra.Command{
		Use: "failing",
		RunE: func(cmd *cobra.Command, args []string) error {
			application = app.New(context.Background(), &config.Config{
				MatchAPI:    config.MatchAPI{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
				Credentials: config.Credentials{Store: "memory", Token: "tok"},
				History:     config.History{Driver: "none"},
				LogLevel:    "error",
			})
			coordinator, _ = application.Registry.Acquire("42")
			return errors.New("boom")
		},
	}
	rootCmd.AddCommand(failing)
	rootCmd.SetArgs([]string{"failing"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.RemoveCommand(failing)
		rootCmd.SetArgs(nil)
	})

	err := run()

	assert.EqualError(t, err, "boom")
	assert.Nil(t, application)
	require.NotNil(t, coordinator)
	assert.ErrorIs(t, coordinator.Refresh(context.Background()), usecase_swipe.ErrClosed)
}
