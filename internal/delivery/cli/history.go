package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past matches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := loadApp(cmd.Context())
		if a.History == nil {
			return errors.New("history is disabled, set HISTORY_DRIVER")
		}

		records, err := a.History.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matches yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSESSION\tMOVIE\tSCORE\tPARTICIPANTS")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				r.SessionID,
				r.Title,
				r.Score,
				r.Participants,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of matches to show")
	rootCmd.AddCommand(historyCmd)
}
