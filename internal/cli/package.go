package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/evcraddock/showing-hive/internal/client"
)

func newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Upload disclosure documents and bundle them into packages",
	}
	cmd.AddCommand(
		newPackageUploadCmd(),
		newPackageFilesCmd(),
		newPackageCreateCmd(),
		newPackageListCmd(),
	)
	return cmd
}

func newPackageUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <property-id> <file>...",
		Short: "Upload documents for a property",
		Long: `Upload documents for a property. Each file is stored under its base name,
replacing any earlier upload of the same name.

Example:
  hive package upload 3f2a... ./inspection.pdf ./hoa-rules.pdf`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			for _, path := range args[1:] {
				if err := uploadFile(cmd, c, args[0], path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func uploadFile(cmd *cobra.Command, c *client.Client, propertyID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing %s: %v\n", path, cerr)
		}
	}()

	name := filepath.Base(path)
	if err := c.UploadFile(cmd.Context(), propertyID, name, f); err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	if !isJSON() {
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", name)
	}
	return nil
}

func newPackageFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files <property-id>",
		Short: "List uploaded documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := newAPIClient().ListFiles(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), names)
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No files uploaded.")
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newPackageCreateCmd() *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:   "create <property-id> <name> <file>...",
		Short: "Bundle uploaded documents into a package",
		Long: `Bundle uploaded documents into a package buyers can request.

Example:
  hive package create 3f2a... "Seller disclosures" inspection.pdf hoa-rules.pdf`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, err := newAPIClient().CreatePackage(cmd.Context(), args[0], args[1], args[2:], public)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), pkg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Package %s created (%d files)\n", pkg.ID, len(pkg.Filenames))
			return nil
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "mark the package as publicly listed")
	return cmd
}

func newPackageListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <property-id>",
		Short: "List a property's packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := newAPIClient().ListPackages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), pkgs)
			}
			return printPackageTable(cmd.OutOrStdout(), pkgs)
		},
	}
}
