package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/showing-hive/internal/schedule"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share disclosure packages with buyers",
	}
	cmd.AddCommand(
		newShareRequestCmd(),
		newShareListCmd(),
		newShareShowCmd(),
		newShareApproveCmd(),
		newShareDownloadCmd(),
		newShareFeedbackCmd(),
	)
	return cmd
}

func newShareRequestCmd() *cobra.Command {
	var f personFlags

	cmd := &cobra.Command{
		Use:   "request <property-id> <package-id>",
		Short: "Request a package on behalf of a buyer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			buyer, err := f.person()
			if err != nil {
				return err
			}
			sh, err := newAPIClient().RequestShare(cmd.Context(), args[0], args[1], buyer)
			if err != nil {
				return err
			}
			return printShareResult(cmd, sh)
		},
	}
	f.register(cmd, "buyer")
	return cmd
}

func printShareResult(cmd *cobra.Command, sh *schedule.Share) error {
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), sh)
	}
	printShare(cmd.OutOrStdout(), sh)
	return nil
}

func newShareListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <property-id>",
		Short: "List a property's shares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := newAPIClient().ListShares(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), shares)
			}
			return printShareTable(cmd.OutOrStdout(), shares)
		},
	}
}

func newShareShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <share-id>",
		Short: "Show a share with its downloads and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newAPIClient().GetShare(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printShareResult(cmd, sh)
		},
	}
}

func newShareApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <share-id>",
		Short: "Let the buyer download the package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newAPIClient().ApproveShare(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printShareResult(cmd, sh)
		},
	}
}

func newShareDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <share-id> <filename>",
		Short: "Download one file of an approved share",
		Long: `Download one file of an approved share. The file is written to --output,
or to <filename> in the current directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newAPIClient().DownloadFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			dest := output
			if dest == "" {
				dest = args[1]
			}
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", dest, len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path")
	return cmd
}

func newShareFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <share-id> <rating> <comment>",
		Short: "Rate a disclosure package from 1 to 5",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := parseRating(args[1])
			if err != nil {
				return err
			}
			fb, err := newAPIClient().ShareFeedback(cmd.Context(), args[0], rating, args[2])
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
