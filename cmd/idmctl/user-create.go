package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/config"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a user",
	Long: `Create a user and add it to the default user role.

The password is read from IDM_USER_PASSWORD so it does not show up in the
process list or shell history.

Example:
  IDM_USER_PASSWORD='Secret1!' idmctl user create alice --email alice@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		roles, _ := cmd.Flags().GetStringSlice("role")

		if err := createUser(cmd.Context(), args[0], email, roles); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("email", "", "Email address of the user")
	userCreateCmd.Flags().StringSlice("role", nil, "Additional roles to add the user to")
}

func createUser(ctx context.Context, name, email string, roles []string) error {
	password := os.Getenv("IDM_USER_PASSWORD")
	if password == "" {
		return errors.New("IDM_USER_PASSWORD environment variable is required")
	}

	cfg := loadConfig()
	stores, closeDB, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	event := audit.UserEvent{UserID: operator(), Operation: "create", Subject: name}
	user, err := stores.Users.CreateUser(ctx, store.NewUser{UserName: name, Email: email, Password: password})
	if err != nil {
		if msg, ok := rejection(err); ok {
			event.ErrorMessage = msg
			audit.Log(event)
			return fmt.Errorf("rejected: %s", msg)
		}
		return err
	}
	event.Success = true
	audit.Log(event)
	fmt.Printf("Created user %s (%s)\n", user.UserName, user.ID)

	return addToRoles(ctx, stores.Membership, *user, append([]string{cfg.DefaultUserRole}, roles...), cfg)
}

// addToRoles adds user to each role. Rejections are reported and skipped.
func addToRoles(ctx context.Context, ms store.MembershipStore, user store.User, roles []string, cfg *config.IDMConfig) error {
	for _, roleName := range roles {
		if roleName == "" {
			continue
		}
		event := audit.MembershipEvent{UserID: operator(), Operation: "add", RoleName: roleName, Member: user.UserName}
		if err := ms.AddToRole(ctx, user, roleName); err != nil {
			msg, ok := rejection(err)
			if !ok {
				return err
			}
			event.ErrorMessage = msg
			audit.Log(event)
			fmt.Fprintf(os.Stderr, "Could not add %s to role %s: %s\n", user.UserName, roleName, msg)
			continue
		}
		event.Success = true
		audit.Log(event)
		if roleName == cfg.AdminRole {
			fmt.Printf("Granted %s admin access\n", user.UserName)
		} else {
			fmt.Printf("Added %s to role %s\n", user.UserName, roleName)
		}
	}
	return nil
}
