package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/status"
)

var (
	statusRefresh int
	statusJSON    bool
	statusOnce    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show free space on the cleaned volumes",
	Long:  "Live view of usage and free space for every volume that holds a cleanup target.",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := catalog()
		if err != nil {
			return err
		}
		src := status.DiskSource{}

		if statusJSON || statusOnce || !isInteractive() {
			vols, err := status.Collect(commandContext(cmd), src, targets)
			if err != nil {
				return err
			}
			if statusJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(vols)
			}
			fmt.Println(status.RenderVolumes(vols, terminalWidth(), nil))
			return nil
		}

		interval := time.Duration(statusRefresh) * time.Second
		p := tea.NewProgram(status.NewStatusModel(src, targets, interval), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("status display failed: %w", err)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusRefresh, "refresh", 2, "Refresh interval in seconds")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output volume usage as JSON")
	statusCmd.Flags().BoolVar(&statusOnce, "once", false, "Print usage once and exit")
}
