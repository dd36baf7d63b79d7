package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/core"
	"github.com/lakshaymaurya-felt/wincache/internal/runlog"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s (%s) built %s\n", runlog.AppName, appVersion, appCommit, appDate)
		fmt.Printf("%s/%s, %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
		fmt.Printf("OS: %s\n", core.OSDescription())
	},
}
