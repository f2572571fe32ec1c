package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sati-bot",
		Short: "Mindfulness journal bot for Telegram",
		Long: "sati-bot keeps a journal of events, reactions and meditation sessions,\n" +
			"offers short reflections and pushes a daily summary to subscribed chats.",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSummaryCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newPushDailyCmd())
	return root
}
