package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show connectivity and local backlog",
	Long: `Show the offline engine's current state.

Reports whether the remote backend is reachable, how many photos and
pending writes are waiting to sync, and a local storage estimate.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, err := openEngine("status")
	if err != nil {
		return err
	}
	defer eng.Close()

	status, err := eng.manager.Status()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("read status: %w", err))
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	onlineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	offlineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	fmt.Println(headerStyle.Render("FIELDSYNC STATUS"))
	fmt.Println(strings.Repeat("─", 50))

	if status.IsOnline {
		fmt.Printf("  Connectivity:   %s\n", onlineStyle.Render("online"))
	} else {
		fmt.Printf("  Connectivity:   %s\n", offlineStyle.Render("offline"))
	}
	fmt.Printf("  Pending photos: %d\n", status.PendingPhotos)
	fmt.Printf("  Pending writes: %d\n", status.PendingSync)
	fmt.Printf("  Storage used:   %s\n", formatBytes(status.StorageUsed))
	if status.StorageAvailable > 0 {
		fmt.Printf("  Storage free:   %s\n", formatBytes(status.StorageAvailable))
	}

	state, err := eng.store.GetDeviceState()
	if err == nil && state != nil && state.LastSyncAt != nil {
		fmt.Printf("  Last sync:      %s\n", formatTimeSince(*state.LastSyncAt))
	}

	return nil
}

// formatBytes formats a byte count in a human-readable way.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
