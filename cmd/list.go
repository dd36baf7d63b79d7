package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/config"
	"github.com/lakshaymaurya-felt/wincache/internal/engine"
	"github.com/lakshaymaurya-felt/wincache/internal/ui"
)

var listPaths bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cleanup targets",
	Long:  "Show every cleanup target grouped by category, with its ID and description.",
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := catalog()
		if err != nil {
			return err
		}
		fmt.Print(renderTargetList(targets, listPaths))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listPaths, "paths", "p", false, "Show the locations each target cleans")
}

func renderTargetList(targets []engine.Target, withPaths bool) string {
	var b strings.Builder
	for _, cat := range config.Categories(targets) {
		b.WriteString(ui.TitleStyle.Render(strings.ToUpper(cat)))
		b.WriteString("\n")
		for _, t := range config.GetTargetsByCategory(targets, cat) {
			tag := ""
			if t.RequiresAdmin {
				tag = " " + ui.TagWarningStyle.Render("admin")
			}
			fmt.Fprintf(&b, "  %s %-24s %s%s\n", ui.IconBullet, t.ID, ui.TextStyle.Render(t.Name()), tag)
			if t.Description != "" {
				fmt.Fprintf(&b, "    %s\n", ui.MutedStyle.Render(t.Description))
			}
			if withPaths {
				for _, p := range t.Paths {
					fmt.Fprintf(&b, "    %s %s\n", ui.IconChevron, ui.MutedStyle.Render(p))
				}
				if t.Command != nil {
					fmt.Fprintf(&b, "    %s %s\n", ui.IconChevron,
						ui.MutedStyle.Render(strings.Join(append([]string{t.Command.Name}, t.Command.Args...), " ")))
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
