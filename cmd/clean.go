package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/analyze"
	"github.com/lakshaymaurya-felt/wincache/internal/config"
	"github.com/lakshaymaurya-felt/wincache/internal/core"
	"github.com/lakshaymaurya-felt/wincache/internal/engine"
	"github.com/lakshaymaurya-felt/wincache/internal/ui"
)

var (
	cleanAll        bool
	cleanTargets    []string
	cleanCategories []string
	cleanDryRun     bool
	cleanYes        bool
)

var errNoSelection = errors.New("no targets selected (use --all, --target or --category)")

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Delete the contents of the selected cache locations.

Directories are emptied but kept. Entries in use by running programs are
skipped and reported. Press q or Ctrl+C to stop after the current entry.`,
	Example: `  wcc clean --all
  wcc clean --target user-temp,prefetch
  wcc clean --category browser --dry-run`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Clean every target in the catalog")
	cleanCmd.Flags().StringSliceVarP(&cleanTargets, "target", "t", nil, "Target IDs to clean (see 'wcc list')")
	cleanCmd.Flags().StringSliceVarP(&cleanCategories, "category", "c", nil, "Categories to clean (system, user, browser, graphics)")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Preview the cleanup plan without deleting")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip the confirmation prompt")

	_ = cleanCmd.RegisterFlagCompletionFunc("target", completeTargetIDs)
	_ = cleanCmd.RegisterFlagCompletionFunc("category", completeCategories)
}

func runClean(cmd *cobra.Command, args []string) error {
	targets, err := selectTargets(cleanAll, cleanTargets, cleanCategories)
	if err != nil {
		return err
	}

	if cleanDryRun {
		return runAnalysis(cmd, targets)
	}

	warnAdmin(targets)
	if !cleanYes && !confirm(targets) {
		fmt.Println(ui.MutedStyle.Render("Cleanup aborted."))
		return nil
	}

	summary, err := execute(cmd, targets, engine.Cleanup, "Cleaning")
	if err != nil {
		return err
	}
	fmt.Println(ui.RenderSummary(summary))
	return nil
}

// selectTargets resolves the selection flags against the catalog.
func selectTargets(all bool, ids, categories []string) ([]engine.Target, error) {
	targets, err := catalog()
	if err != nil {
		return nil, err
	}
	if !all {
		targets, err = config.Select(targets, ids, categories)
		if err != nil {
			return nil, err
		}
	}
	if len(targets) == 0 {
		return nil, errNoSelection
	}
	return targets, nil
}

// warnAdmin prints a warning when targets need elevation the process lacks.
// The targets still run; their failures surface as Denied.
func warnAdmin(targets []engine.Target) {
	if core.IsElevated() {
		return
	}
	var names []string
	for _, t := range targets {
		if t.RequiresAdmin {
			names = append(names, t.Name())
		}
	}
	if len(names) == 0 {
		return
	}
	fmt.Println(ui.TagWarningStyle.Render("ADMIN"), ui.WarningStyle.Render(
		"Not running elevated; these operations may be partially denied:"))
	for _, n := range names {
		fmt.Println("  " + ui.MutedStyle.Render(ui.IconBullet+" "+n))
	}
	fmt.Println()
}

// confirm lists the plan and asks for a y/N answer on stdin.
func confirm(targets []engine.Target) bool {
	fmt.Println(ui.TitleStyle.Render("The following operations will run:"))
	for _, t := range targets {
		fmt.Println("  " + ui.IconBullet + " " + t.Name())
	}
	fmt.Print("\nProceed? [y/N] ")

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// runAnalysis performs an Analyze run and prints the report.
func runAnalysis(cmd *cobra.Command, targets []engine.Target) error {
	summary, err := execute(cmd, targets, engine.Analyze, "Analyzing")
	if err != nil {
		return err
	}
	if isInteractive() {
		fmt.Println(analyze.RenderReport(summary, terminalWidth()))
	} else {
		analyze.PrintReport(os.Stdout, summary)
	}
	return nil
}
