package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/config"
)

var completionCmd = &cobra.Command{
	Use:   "completion [powershell|bash|zsh|fish]",
	Short: "Set up shell tab completion",
	Long: `Generate a tab completion script.

PowerShell:
  wcc completion powershell | Out-String | Invoke-Expression

Add the line above to your $PROFILE to load it in every session.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"powershell", "bash", "zsh", "fish"},
	// Completion must work without a readable config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := "powershell"
		if len(args) == 1 {
			shell = args[0]
		}
		switch shell {
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return fmt.Errorf("unsupported shell: %s", shell)
	},
}

// completeTargetIDs offers catalog IDs for --target.
func completeTargetIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c, err := config.Load(config.DefaultPath())
	if err != nil {
		c = config.Default()
	}
	targets, err := c.ResolveTargets()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, t := range targets {
		if strings.HasPrefix(strings.ToLower(t.ID), strings.ToLower(toComplete)) {
			out = append(out, t.ID+"\t"+t.Name())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeCategories offers the built-in categories for --category.
func completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return config.Categories(config.GetCleanTargets()), cobra.ShellCompDirectiveNoFileComp
}
