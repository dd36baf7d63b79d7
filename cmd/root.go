package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/config"
	"github.com/lakshaymaurya-felt/wincache/internal/engine"
	"github.com/lakshaymaurya-felt/wincache/internal/logging"
)

var (
	// Global flags
	debug      bool
	configPath string

	// Loaded in PersistentPreRunE.
	cfg       *config.Config
	logger    = slog.New(slog.DiscardHandler)
	logCloser io.Closer

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "wcc",
	Short: "Clean Windows caches and temporary files",
	Long: `wcc - Windows Cache Cleaner.

Analyzes and removes temporary files, caches and logs that Windows,
browsers and graphics drivers leave behind. Every run can be cancelled
and is recorded in a report under the log directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultPath()+")")

	// Register all subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and opens the diagnostic log.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	l, closer, err := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		Stderr:     debug,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger, logCloser = l, closer
	logger.Debug("configuration loaded", "path", path, "command", cmd.Name())
	return nil
}

// engineOptions builds the engine configuration from the loaded config.
func engineOptions() engine.Options {
	return engine.Options{
		Space:       engine.DiskProbe{},
		BatchSize:   cfg.Engine.BatchSize,
		Exclude:     cfg.Clean.ExcludePatterns,
		SpaceVolume: cfg.Engine.SpaceVolume,
		Logger:      logger,
	}
}

// catalog returns the built-in targets merged with the configured ones.
func catalog() ([]engine.Target, error) {
	targets, err := cfg.ResolveTargets()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve targets: %w", err)
	}
	return targets, nil
}
