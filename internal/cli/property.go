package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/showing-hive/internal/client"
	"github.com/evcraddock/showing-hive/internal/property"
)

// propertyFlags holds the flags shared by property add and update.
type propertyFlags struct {
	name, address                        string
	sellerName, sellerPhone, sellerEmail string
	agentName, agentPhone, agentEmail    string
	autoApprove, disclosureApproval      bool
}

func (f *propertyFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "listing name")
	fl.StringVar(&f.address, "address", "", "street address")
	fl.StringVar(&f.sellerName, "seller-name", "", "seller name")
	fl.StringVar(&f.sellerPhone, "seller-phone", "", "seller phone for SMS notices")
	fl.StringVar(&f.sellerEmail, "seller-email", "", "seller email")
	fl.StringVar(&f.agentName, "agent-name", "", "listing agent name")
	fl.StringVar(&f.agentPhone, "agent-phone", "", "listing agent phone")
	fl.StringVar(&f.agentEmail, "agent-email", "", "listing agent email")
	fl.BoolVar(&f.autoApprove, "auto-approve", false, "approve showing requests automatically")
	fl.BoolVar(&f.disclosureApproval, "disclosure-approval", true, "require seller approval before buyers can download disclosures")
}

// input builds a request body from base, overriding only the flags the
// user set.
func (f *propertyFlags) input(cmd *cobra.Command, base property.Property) client.PropertyInput {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("name", &base.Name, f.name)
	set("address", &base.Address, f.address)
	set("seller-name", &base.Seller.Name, f.sellerName)
	set("seller-phone", &base.Seller.Phone, f.sellerPhone)
	set("seller-email", &base.Seller.Email, f.sellerEmail)
	set("agent-name", &base.Agent.Name, f.agentName)
	set("agent-phone", &base.Agent.Phone, f.agentPhone)
	set("agent-email", &base.Agent.Email, f.agentEmail)

	in := client.PropertyInput{
		Name:    base.Name,
		Address: base.Address,
		Seller:  base.Seller,
		Agent:   base.Agent,
	}
	if cmd.Flags().Changed("auto-approve") {
		in.AutoApproveShowings = &f.autoApprove
	}
	if cmd.Flags().Changed("disclosure-approval") {
		in.RequiresDisclosureApproval = &f.disclosureApproval
	}
	return in
}

func newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"prop"},
		Short:   "Manage properties",
	}
	cmd.AddCommand(
		newPropertyAddCmd(),
		newPropertyListCmd(),
		newPropertyShowCmd(),
		newPropertyUpdateCmd(),
		newPropertyDashboardCmd(),
	)
	return cmd
}

func newPropertyAddCmd() *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a property",
		Long: `Add a property.

Examples:
  hive property add --name "Maple" --address "1 Maple St" --seller-name Sam --seller-phone +15550111
  hive property add --name "Oak" --address "2 Oak Ave" --auto-approve --disclosure-approval=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.name == "" || f.address == "" {
				return fmt.Errorf("--name and --address are required")
			}
			p, err := newAPIClient().AddProperty(cmd.Context(), f.input(cmd, property.Property{}))
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printProperty(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newPropertyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := newAPIClient().ListProperties(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), props)
			}
			return printPropertyTable(cmd.OutOrStdout(), props)
		},
	}
}

func newPropertyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <property-id>",
		Short: "Show a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newAPIClient().GetProperty(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printProperty(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newPropertyUpdateCmd() *cobra.Command {
	var f propertyFlags

	cmd := &cobra.Command{
		Use:   "update <property-id>",
		Short: "Change a property's details or policies",
		Long: `Change a property's details or policies. Only the flags given are changed.

Examples:
  hive property update 3f2a... --auto-approve
  hive property update 3f2a... --agent-email agent@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()
			current, err := c.GetProperty(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p, err := c.UpdateProperty(cmd.Context(), args[0], f.input(cmd, *current))
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printProperty(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newPropertyDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard <property-id>",
		Short: "Show everything scheduled against a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newAPIClient().Dashboard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), d)
			}
			return printDashboard(cmd.OutOrStdout(), d)
		},
	}
}
