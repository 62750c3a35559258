package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
)

// roleDeleteCmd represents the role delete command
var roleDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a role and its memberships",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deleteRole(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete role: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleDeleteCmd)
}

func deleteRole(ctx context.Context, name string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	role, err := findRoleByName(ctx, stores.Membership, name)
	if err != nil {
		return err
	}

	event := audit.RoleEvent{UserID: operator(), Operation: "delete", RoleName: role.Name}
	if err := stores.Membership.DeleteRole(ctx, *role); err != nil {
		if msg, ok := rejection(err); ok {
			event.ErrorMessage = msg
			audit.Log(event)
		}
		return err
	}

	event.Success = true
	audit.Log(event)
	fmt.Printf("Deleted role %s\n", role.Name)
	return nil
}
