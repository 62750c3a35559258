package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/config"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Validate the config file on every change and signal the server",
	Long: `Watch the config file and, each time it changes and validates, signal
the running server to reload it. Invalid edits are reported and the
server keeps its current configuration.

Example:
  idmctl configuration watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
}

func watchConfiguration() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for configuration changes\n", config.FilePath())

	err := config.Watch(ctx, func(cfg *config.IDMConfig, err error) {
		now := time.Now().Format(time.RFC3339)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] Ignoring configuration change: %v\n", now, err)
			return
		}

		pid, err := findServerPID()
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] Configuration is valid but %v\n", now, err)
			return
		}
		process, err := os.FindProcess(pid)
		if err == nil {
			err = process.Signal(syscall.SIGHUP)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] Failed to signal server: %v\n", now, err)
			return
		}
		fmt.Printf("[%s] Configuration reloaded by process %d\n", now, pid)
	})

	fmt.Println("\nShutting down...")
	return err
}
