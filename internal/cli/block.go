package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage time a property is unavailable for showings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <property-id> <start> <end>",
			Short: "Block a time range",
			Long: `Block a time range. Times are ISO-8601; times without a zone are UTC.

Example:
  hive block add 3f2a... 2024-06-01T12:00 2024-06-01T14:00`,
			Args: cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := newAPIClient().AddBlock(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), b)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Blocked %s to %s\n", formatTime(b.Start), formatTime(b.End))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list <property-id>",
			Short: "List blocked time",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				blocks, err := newAPIClient().ListBlocks(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), blocks)
				}
				return printBlockTable(cmd.OutOrStdout(), blocks)
			},
		},
	)

	return cmd
}
