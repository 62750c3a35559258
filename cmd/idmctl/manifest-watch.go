package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/manifest"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// manifestWatchCmd represents the manifest watch command
var manifestWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a manifest and apply it whenever it changes",
	Long: `Apply a manifest once, then again every time the file is written or
replaced. Invalid manifests are reported and skipped.

Example:
  idmctl manifest watch /etc/idm/roles.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchManifest(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch manifest: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	manifestCmd.AddCommand(manifestWatchCmd)
}

func watchManifest(path string) error {
	stores, closeDB, err := openStores(loadConfig())
	if err != nil {
		return err
	}
	defer closeDB()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// the directory survives editors that replace the file
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for manifest changes\n", path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reapply(ctx, stores.Membership, path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fmt.Printf("[%s] Manifest modified, applying...\n", time.Now().Format(time.RFC3339))
				reapply(ctx, stores.Membership, path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-ctx.Done():
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func reapply(ctx context.Context, ms store.MembershipStore, path string) {
	m, err := manifest.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		return
	}

	report, err := applyManifest(ctx, ms, m, false)
	if report != nil {
		_ = writeReport(os.Stdout, report, "text")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error applying manifest: %v\n", err)
		return
	}
	if report.Succeeded() {
		fmt.Printf("Manifest applied successfully from %s\n", path)
	}
}
