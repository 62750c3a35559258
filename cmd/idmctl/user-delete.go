package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// userDeleteCmd represents the user delete command
var userDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a user and its memberships",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deleteUser(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userDeleteCmd)
}

func deleteUser(ctx context.Context, name string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := stores.Users.FindUserByName(ctx, name)
	if errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("user %s does not exist", name)
	}
	if err != nil {
		return err
	}

	event := audit.UserEvent{UserID: operator(), Operation: "delete", Subject: user.UserName}
	if err := stores.Users.DeleteUser(ctx, *user); err != nil {
		if msg, ok := rejection(err); ok {
			event.ErrorMessage = msg
			audit.Log(event)
		}
		return err
	}
	event.Success = true
	audit.Log(event)
	fmt.Printf("Deleted user %s\n", user.UserName)
	return nil
}
