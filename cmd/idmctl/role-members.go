package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// roleMembersCmd represents the role members command
var roleMembersCmd = &cobra.Command{
	Use:   "members <role>",
	Short: "Show or change the members of a role",
	Long: `Show the members of a role, or add and remove users by name.

Additions are applied before removals. Rejected changes are reported and
the command exits non-zero, but accepted changes are kept.

Example:
  idmctl role members Editors
  idmctl role members Editors --add alice,bob --remove carol`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		add, _ := cmd.Flags().GetStringSlice("add")
		remove, _ := cmd.Flags().GetStringSlice("remove")

		if err := roleMembers(cmd.Context(), args[0], add, remove); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to update members: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleMembersCmd)
	roleMembersCmd.Flags().StringSlice("add", nil, "User names to add to the role")
	roleMembersCmd.Flags().StringSlice("remove", nil, "User names to remove from the role")
}

func roleMembers(ctx context.Context, roleName string, add, remove []string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	ms := stores.Membership
	role, err := findRoleByName(ctx, ms, roleName)
	if err != nil {
		return err
	}
	users, err := ms.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(add) == 0 && len(remove) == 0 {
		members, _, err := membership.Partition(ctx, users, role.Name, ms.IsMember)
		if err != nil {
			return err
		}
		for _, user := range members {
			fmt.Println(user.UserName)
		}
		return nil
	}

	var errs membership.Errors
	delta := membership.Delta{RoleID: role.ID, RoleName: role.Name}
	delta.AddIDs = resolveUserIDs(users, add, &errs)
	delta.RemoveIDs = resolveUserIDs(users, remove, &errs)

	result, err := membership.Reconcile(ctx, ms, delta, membership.WithObserver(func(c membership.Change) {
		audit.Log(audit.MembershipEvent{
			UserID:       operator(),
			Operation:    string(c.Operation),
			RoleName:     c.RoleName,
			Member:       c.User.UserName,
			Success:      len(c.Rejected) == 0,
			ErrorMessage: strings.Join(c.Rejected, "; "),
		})
		if len(c.Rejected) == 0 {
			fmt.Printf("%s %s\n", c.Operation, c.User.UserName)
		}
	}))
	if err != nil {
		return err
	}

	errs.AddAll(result.Errors...)
	if !errs.IsEmpty() {
		return fmt.Errorf("some changes were rejected:\n  %s", errs.Join("\n  "))
	}
	return nil
}

// resolveUserIDs maps user names to ids, recording unknown names in errs
func resolveUserIDs(users []store.User, names []string, errs *membership.Errors) []string {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		key := store.Normalize(name)
		found := false
		for _, user := range users {
			if store.Normalize(user.UserName) == key {
				ids = append(ids, user.ID)
				found = true
				break
			}
		}
		if !found {
			errs.Add(fmt.Sprintf("User %s does not exist.", name))
		}
	}
	return ids
}
