package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "khata",
		Short: "Khata - customer ledger and prize-bond registry",
		Long: `Khata keeps a private ledger of customers, the money sent to and received
from them, and the prize-bond serial numbers held on their behalf.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a TOML config file (default $KHATA_CONFIG)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(bondsCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
