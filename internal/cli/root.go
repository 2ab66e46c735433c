package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command of the operator CLI
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mintctl",
		Short: "Operator tooling for the issuance service",
		Long: `Operator tooling for the issuance service.

Signs and verifies mint vouchers and registers collections through the API.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewVoucherCommand())
	cmd.AddCommand(NewCollectionsCommand())

	return cmd
}
