package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
)

// roleCreateCmd represents the role create command
var roleCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a role",
	Long: `Create a role with the given name.

Example:
  idmctl role create Editors`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := createRole(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create role: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleCreateCmd)
}

func createRole(ctx context.Context, name string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	event := audit.RoleEvent{UserID: operator(), Operation: "create", RoleName: name}
	role, err := stores.Membership.CreateRole(ctx, name)
	if err != nil {
		if msg, ok := rejection(err); ok {
			event.ErrorMessage = msg
			audit.Log(event)
		}
		return err
	}

	event.Success = true
	audit.Log(event)
	fmt.Printf("Created role %s (%s)\n", role.Name, role.ID)
	return nil
}
