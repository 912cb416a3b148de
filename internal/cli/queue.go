package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var queueShowDead bool

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show pending writes waiting to sync",
	Long: `List the writes queued for replay against the remote backend.

Items are shown in the order they will be applied. With --dead the
dead-letter collection is shown instead: writes dropped after
exhausting their retries, kept locally for inspection.

Examples:
  fieldsync queue
  fieldsync queue --dead`,
	Args: cobra.NoArgs,
	RunE: runQueue,
}

func init() {
	queueCmd.Flags().BoolVar(&queueShowDead, "dead", false, "show dropped writes instead of pending ones")
}

func runQueue(cmd *cobra.Command, args []string) error {
	eng, err := openEngine("queue")
	if err != nil {
		return err
	}
	defer eng.Close()

	if queueShowDead {
		return runQueueDead(eng)
	}

	items, err := eng.store.ListQueueInOrder()
	if err != nil {
		return trackCLIError("queue", err)
	}

	if len(items) == 0 {
		fmt.Println("No pending writes.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	fmt.Printf("%s (%d items)\n", headerStyle.Render("PENDING WRITES"), len(items))
	fmt.Println(strings.Repeat("─", 50))

	for _, item := range items {
		retries := ""
		if item.Retries > 0 {
			retries = warnStyle.Render(fmt.Sprintf("  (%d retries)", item.Retries))
		}
		fmt.Printf("  #%d  %-6s %s%s\n", item.ID, item.Op, item.Table, retries)
		fmt.Printf("      queued %s\n", formatTimeSince(item.CreatedAt))
	}

	return nil
}

func runQueueDead(eng *engine) error {
	letters, err := eng.store.ListDeadLetters()
	if err != nil {
		return trackCLIError("queue", err)
	}

	if len(letters) == 0 {
		fmt.Println("No dropped writes.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	fmt.Printf("%s (%d items)\n", headerStyle.Render("DROPPED WRITES"), len(letters))
	fmt.Println(strings.Repeat("─", 50))

	for _, letter := range letters {
		fmt.Printf("  %s #%d  %-6s %s\n", errorStyle.Render("x"), letter.QueueID, letter.Op, letter.Table)
		fmt.Printf("      %s, dropped %s\n", letter.Reason, formatTimeSince(letter.DroppedAt))
	}

	return nil
}
