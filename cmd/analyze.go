package cmd

import (
	"github.com/spf13/cobra"
)

var (
	analyzeAll        bool
	analyzeTargets    []string
	analyzeCategories []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate reclaimable space",
	Long: `Measure how much each selected cache location would free, without
deleting anything. With no selection flags every target is analyzed.`,
	Example: `  wcc analyze
  wcc analyze --category browser`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := analyzeAll || (len(analyzeTargets) == 0 && len(analyzeCategories) == 0)
		targets, err := selectTargets(all, analyzeTargets, analyzeCategories)
		if err != nil {
			return err
		}
		return runAnalysis(cmd, targets)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "Analyze every target in the catalog")
	analyzeCmd.Flags().StringSliceVarP(&analyzeTargets, "target", "t", nil, "Target IDs to analyze")
	analyzeCmd.Flags().StringSliceVarP(&analyzeCategories, "category", "c", nil, "Categories to analyze")

	_ = analyzeCmd.RegisterFlagCompletionFunc("target", completeTargetIDs)
	_ = analyzeCmd.RegisterFlagCompletionFunc("category", completeCategories)
}
