// Package cli implements the splitpay command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the splitpay command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "splitpay",
		Short: "Shared expenses settled in USDC",
		Long: `SplitPay tracks shared expenses of a group of wallets and computes who
owes whom. Run the API server with 'splitpay serve', or settle a group
offline from a JSON snapshot with 'splitpay settle'.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config-dir", ".", "Directory searched for splitpay.env")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSettleCmd())
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
