package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/showing-hive/internal/schedule"
)

// personFlags registers --name, --phone and --email for a buyer or client.
type personFlags struct {
	name, phone, email string
}

func (f *personFlags) register(cmd *cobra.Command, who string) {
	cmd.Flags().StringVar(&f.name, "name", "", who+" name (required)")
	cmd.Flags().StringVar(&f.phone, "phone", "", who+" phone for SMS notices")
	cmd.Flags().StringVar(&f.email, "email", "", who+" email")
}

func (f *personFlags) person() (schedule.Person, error) {
	if f.name == "" {
		return schedule.Person{}, fmt.Errorf("--name is required")
	}
	return schedule.Person{Name: f.name, Phone: f.phone, Email: f.email}, nil
}

// parseRating validates a 1..5 rating argument.
func parseRating(s string) (int, error) {
	r, err := strconv.Atoi(s)
	if err != nil || r < 1 || r > 5 {
		return 0, fmt.Errorf("rating must be 1-5, got %q", s)
	}
	return r, nil
}

func newShowingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "showing",
		Short: "Request and manage showings",
	}
	cmd.AddCommand(
		newShowingRequestCmd(),
		newShowingListCmd(),
		newShowingShowCmd(),
		newShowingActionCmd("approve", "Approve a pending showing and issue its lockbox code"),
		newShowingActionCmd("decline", "Decline a pending showing"),
		newShowingRescheduleCmd(),
		newShowingLockboxCmd(),
		newShowingFeedbackCmd(),
	)
	return cmd
}

func newShowingRequestCmd() *cobra.Command {
	var f personFlags

	cmd := &cobra.Command{
		Use:   "request <property-id> <start>",
		Short: "Request a one-hour showing",
		Long: `Request a showing starting at <start>. Times are ISO-8601; times without a
zone are UTC.

Example:
  hive showing request 3f2a... 2024-06-01T10:00 --name "Bea Buyer" --phone +15550123`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := f.person()
			if err != nil {
				return err
			}
			sh, err := newAPIClient().RequestShowing(cmd.Context(), args[0], args[1], client)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), sh)
			}
			printShowing(cmd.OutOrStdout(), sh)
			return nil
		},
	}
	f.register(cmd, "client")
	return cmd
}

func newShowingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <property-id>",
		Short: "List a property's showings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := newAPIClient().ListShowings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), list)
			}
			return printShowingTable(cmd.OutOrStdout(), list)
		},
	}
}

func newShowingShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <showing-id>",
		Short: "Show a showing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newAPIClient().GetShowing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), sh)
			}
			printShowing(cmd.OutOrStdout(), sh)
			return nil
		},
	}
}

func newShowingActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <showing-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			var (
				sh  *schedule.Showing
				err error
			)
			if action == "approve" {
				sh, err = c.ApproveShowing(cmd.Context(), args[0])
			} else {
				sh, err = c.DeclineShowing(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), sh)
			}
			printShowing(cmd.OutOrStdout(), sh)
			return nil
		},
	}
}

func newShowingRescheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <showing-id> <start>",
		Short: "Move a showing to a new start time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newAPIClient().RescheduleShowing(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), sh)
			}
			printShowing(cmd.OutOrStdout(), sh)
			return nil
		},
	}
}

func newShowingLockboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lockbox <showing-id>",
		Short: "Print the lockbox code of an approved showing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := newAPIClient().LockboxCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), cred)
			}
			printCredential(cmd.OutOrStdout(), cred)
			return nil
		},
	}
}

func newShowingFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <showing-id> <rating> <comment>",
		Short: "Rate a showing from 1 to 5",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := parseRating(args[1])
			if err != nil {
				return err
			}
			fb, err := newAPIClient().ShowingFeedback(cmd.Context(), args[0], rating, args[2])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), fb)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Feedback recorded: %s %s\n", formatRating(fb.Rating), fb.Comment)
			return nil
		},
	}
}
