package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	var (
		chatID int64
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary report for a chat",
		Long: "Print the summary report for a chat over an inclusive date range.\n" +
			"Without --to the range ends today; without --from it covers seven days.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			start, end, err := summaryRange(a.journal.Now(), from, to)
			if err != nil {
				return err
			}
			report, err := a.journal.RangeReport(chatID, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "chat ID to summarize")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("chat")
	return cmd
}

// summaryRange resolves the --from and --to flags against now's location.
func summaryRange(now time.Time, from, to string) (time.Time, time.Time, error) {
	loc := now.Location()

	end := now
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}

	start := end.AddDate(0, 0, -6)
	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from %s is after --to %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return start, end, nil
}
