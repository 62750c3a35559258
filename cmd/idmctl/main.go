package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "idmctl",
	Short: "Administer users, roles and role membership",
	Long: `idmctl runs the identity admin server and performs administrative
tasks against its database: schema migrations, role and user management,
membership manifests and token issuance.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
