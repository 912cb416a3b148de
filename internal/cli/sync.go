package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var syncWatch bool
var syncIntervalSeconds int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push staged photos and pending writes to the backend",
	Long: `Run one sync pass against the remote backend.

Staged photos are uploaded first, then pending writes are replayed in
the order they were queued. The pass is skipped when the backend is
unreachable; nothing is lost, it just waits for the next run.

With --watch the engine keeps syncing in the background until
interrupted.

Examples:
  fieldsync sync
  fieldsync sync --watch
  fieldsync sync --watch --interval 60`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep syncing periodically until interrupted")
	syncCmd.Flags().IntVar(&syncIntervalSeconds, "interval", 0, "seconds between passes in watch mode")
}

func runSync(cmd *cobra.Command, args []string) error {
	eng, err := openEngine("sync")
	if err != nil {
		return err
	}
	defer eng.Close()

	if syncWatch {
		return runSyncWatch(cmd, eng)
	}

	result := eng.manager.SyncAll(cmd.Context())
	printSyncResult(result.Success, result.Errors)

	if !result.Success {
		return trackCLIError("sync", fmt.Errorf("sync failed: %s", strings.Join(result.Errors, "; ")))
	}
	return nil
}

func runSyncWatch(cmd *cobra.Command, eng *engine) error {
	interval := eng.cfg.Sync.Interval
	if syncIntervalSeconds > 0 {
		interval = time.Duration(syncIntervalSeconds) * time.Second
	}

	fmt.Printf("Watching: syncing every %s. Press Ctrl+C to stop.\n", interval)
	eng.manager.StartAutoSync(interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-cmd.Context().Done():
	}

	eng.manager.StopAutoSync()
	fmt.Println("\nStopped.")
	return nil
}

func printSyncResult(success bool, errs []string) {
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	if success {
		fmt.Printf("%s Sync complete.\n", successStyle.Render("v"))
		return
	}
	for _, e := range errs {
		fmt.Printf("%s %s\n", errorStyle.Render("x"), e)
	}
}
