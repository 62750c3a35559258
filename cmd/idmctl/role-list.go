package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
)

// roleListCmd represents the role list command
var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles and their members",
	Long: `List every role with the names of its members.

Example:
  idmctl role list
  idmctl role list --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := listRoles(cmd.Context(), output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list roles: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	roleCmd.AddCommand(roleListCmd)
	roleListCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func listRoles(ctx context.Context, output string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	ms := stores.Membership
	roles, err := ms.ListRoles(ctx)
	if err != nil {
		return err
	}
	users, err := ms.ListUsers(ctx)
	if err != nil {
		return err
	}
	summaries, err := membership.ListRoles(ctx, roles, users, ms.IsMember)
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMEMBERS")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Name, s.Members())
	}
	return tw.Flush()
}
