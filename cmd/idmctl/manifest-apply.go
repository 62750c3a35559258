package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/manifest"
	"github.com/doodlesbykumbi/idm-admin/pkg/membership"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

var errRejected = errors.New("some changes were rejected")

// manifestApplyCmd represents the manifest apply command
var manifestApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a membership manifest",
	Long: `Apply a membership manifest to the database.

Use --dry-run to print the changes without making them.

Example:
  idmctl manifest apply roles.yml
  idmctl manifest apply roles.yml --dry-run --output json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		output, _ := cmd.Flags().GetString("output")

		if err := applyManifestFile(cmd.Context(), args[0], dryRun, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply manifest: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	manifestCmd.AddCommand(manifestApplyCmd)
	manifestApplyCmd.Flags().Bool("dry-run", false, "Report the changes without making them")
	manifestApplyCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func applyManifestFile(ctx context.Context, path string, dryRun bool, output string) error {
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	report, err := applyManifest(ctx, stores.Membership, m, dryRun)
	if report != nil {
		if werr := writeReport(os.Stdout, report, output); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return err
	}
	if !report.Succeeded() {
		return errRejected
	}
	return nil
}

func applyManifest(ctx context.Context, ms store.MembershipStore, m *manifest.Manifest, dryRun bool) (*manifest.Report, error) {
	opts := []manifest.Option{manifest.WithObserver(func(c membership.Change) {
		audit.Log(audit.MembershipEvent{
			UserID:       operator(),
			Operation:    string(c.Operation),
			RoleName:     c.RoleName,
			Member:       c.User.UserName,
			Success:      len(c.Rejected) == 0,
			ErrorMessage: strings.Join(c.Rejected, "; "),
		})
	})}
	if dryRun {
		opts = append(opts, manifest.WithDryRun())
	}

	report, err := manifest.Apply(ctx, ms, m, opts...)
	if report != nil && !dryRun {
		for _, rr := range report.Roles {
			if rr.Created {
				audit.Log(audit.RoleEvent{UserID: operator(), Operation: "create", RoleName: rr.Role, Success: true})
			}
		}
	}
	return report, err
}

func writeReport(w io.Writer, report *manifest.Report, output string) error {
	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	prefix := ""
	if report.DryRun {
		prefix = "(dry run) "
	}
	for _, rr := range report.Roles {
		if rr.Created {
			fmt.Fprintf(w, "%screate role %s\n", prefix, rr.Role)
		}
		for _, name := range rr.Added {
			fmt.Fprintf(w, "%sadd %s to %s\n", prefix, name, rr.Role)
		}
		for _, name := range rr.Removed {
			fmt.Fprintf(w, "%sremove %s from %s\n", prefix, name, rr.Role)
		}
		for _, msg := range rr.Result.Errors {
			fmt.Fprintf(w, "%s: %s\n", rr.Role, msg)
		}
		if !rr.Created && len(rr.Added) == 0 && len(rr.Removed) == 0 && rr.Result.Succeeded {
			fmt.Fprintf(w, "%s is up to date\n", rr.Role)
		}
	}
	return nil
}
