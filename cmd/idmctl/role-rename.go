package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
)

// roleRenameCmd represents the role rename command
var roleRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a role",
	Long: `Rename a role. Memberships follow the role.

Example:
  idmctl role rename Editors Writers`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := renameRole(cmd.Context(), args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rename role: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleRenameCmd)
}

func renameRole(ctx context.Context, name, newName string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	role, err := findRoleByName(ctx, stores.Membership, name)
	if err != nil {
		return err
	}

	event := audit.RoleEvent{UserID: operator(), Operation: "rename", RoleName: role.Name, NewName: newName}
	if err := stores.Membership.RenameRole(ctx, *role, newName); err != nil {
		if msg, ok := rejection(err); ok {
			event.ErrorMessage = msg
			audit.Log(event)
		}
		return err
	}

	event.Success = true
	audit.Log(event)
	fmt.Printf("Renamed role %s to %s\n", role.Name, newName)
	return nil
}
