package cli

import (
	"github.com/spf13/cobra"
)

func newTourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tour",
		Short: "Plan a buyer's day of approved showings",
	}

	var buyer string
	create := &cobra.Command{
		Use:   "create <showing-id>...",
		Short: "Build an itinerary from approved showings",
		Long: `Build an itinerary from approved showings, ordered by start time.

Example:
  hive tour create --buyer "Bea Buyer" 7c1e... 9d04...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := newAPIClient().CreateTour(cmd.Context(), buyer, args)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), t)
			}
			return printTour(cmd.OutOrStdout(), t)
		},
	}
	create.Flags().StringVar(&buyer, "buyer", "", "buyer name for the itinerary")

	cmd.AddCommand(
		create,
		&cobra.Command{
			Use:   "show <tour-id>",
			Short: "Show an itinerary",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := newAPIClient().GetTour(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), t)
				}
				return printTour(cmd.OutOrStdout(), t)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved tours",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tours, err := newAPIClient().ListTours(cmd.Context())
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), tours)
				}
				return printTourTable(cmd.OutOrStdout(), tours)
			},
		},
	)
	return cmd
}
