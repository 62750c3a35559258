package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Apply declarative role membership manifests",
	Long: `Apply YAML manifests that declare roles and their members:

  roles:
    - name: Editors
      members: [alice, carol]

Listed roles are created when missing and their members are brought to
exactly the listed users. Roles not in the manifest are left alone.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'manifest' requires a subcommand (apply, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}
