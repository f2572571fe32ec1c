package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glebk/sati-bot/internal/dialog"
)

func newPushDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push-daily",
		Short: "Send today's summary to every subscribed chat once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cfg.RequireToken(); err != nil {
				return err
			}
			_, messenger, err := a.connect()
			if err != nil {
				return err
			}

			controller := dialog.NewController(a.journal, messenger, dialog.WithLogger(a.logger))
			sent, err := controller.PushDailySummaries(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d daily summaries\n", sent)
			return nil
		},
	}
}
