package cli

import (
	"github.com/spf13/cobra"
)

func newActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity <property-id>",
		Short: "Show a property's activity log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := newAPIClient().Activity(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), events)
			}
			return printEvents(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events to show (0 for all)")
	return cmd
}
