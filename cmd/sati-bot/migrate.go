package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the journal files or upgrade their headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ensureStorage(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "events: %s\nmeditations: %s\n",
				a.events.Path(), a.meditations.Path())
			return nil
		},
	}
}
