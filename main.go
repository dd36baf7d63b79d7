package main

import (
	"os"

	"github.com/lakshaymaurya-felt/wincache/cmd"
)

// Set by the linker: -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version = "2.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
