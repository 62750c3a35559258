package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/identity"
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue <login>",
	Short: "Issue a signed bearer token",
	Long: `Issue a bearer token for login, signed with token_secret. The token
carries the admin role unless --roles is given.

Example:
  idmctl token issue alice
  curl -H "Authorization: Bearer $(idmctl token issue alice)" localhost:8000/roles`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		roles, _ := cmd.Flags().GetStringSlice("roles")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if err := issueToken(args[0], roles, ttl); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenIssueCmd.Flags().StringSlice("roles", nil, "Roles carried by the token (default: the admin role)")
	tokenIssueCmd.Flags().Duration("ttl", 0, "Token lifetime (default: token_ttl)")
}

func issueToken(login string, roles []string, ttl time.Duration) error {
	cfg := loadConfig()
	if len(roles) == 0 {
		roles = []string{cfg.AdminRole}
	}
	if ttl <= 0 {
		ttl = cfg.TokenLifetime()
	}

	token, expires, err := identity.Issue([]byte(cfg.TokenSecret), login, roles, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "Expires at %s\n", expires.Format(time.RFC3339))
	return nil
}
