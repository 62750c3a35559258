package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// roleCmd represents the role command
var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles",
	Long: `Manage roles and their members directly in the database.

Roles are addressed by name, compared without regard to case.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'role' requires a subcommand (list, create, delete, rename, members)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(roleCmd)
}

func findRoleByName(ctx context.Context, ms store.MembershipStore, name string) (*store.Role, error) {
	roles, err := ms.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	key := store.Normalize(name)
	for _, role := range roles {
		if store.Normalize(role.Name) == key {
			return &role, nil
		}
	}
	return nil, fmt.Errorf("role %s does not exist", name)
}

// rejection returns the user-facing text of a store rejection, or ok=false
// for faults
func rejection(err error) (string, bool) {
	if verr, ok := store.AsValidation(err); ok {
		return verr.Error(), true
	}
	return "", false
}
