package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/wincache/internal/core"
	"github.com/lakshaymaurya-felt/wincache/internal/engine"
	"github.com/lakshaymaurya-felt/wincache/internal/runlog"
	"github.com/lakshaymaurya-felt/wincache/internal/ui"
)

// isInteractive reports whether stdout is a terminal that can host the TUI.
func isInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// execute runs targets in mode and returns the summary. Progress goes to
// the TUI on a terminal and to plain lines otherwise; every run is also
// written to a report file when the log directory is usable.
func execute(cmd *cobra.Command, targets []engine.Target, mode engine.Mode, title string) (engine.RunSummary, error) {
	coord := engine.NewCoordinator(engineOptions())

	var report engine.Sink
	w, err := runlog.Create(cfg.Logging.Dir, runlog.Options{
		Version: appVersion,
		OS:      core.OSDescription(),
		Mode:    mode,
	})
	if err != nil {
		logger.Warn("run report disabled", "err", err)
		fmt.Fprintln(os.Stderr, ui.WarningStyle.Render(ui.IconWarning+" "+err.Error()))
	} else {
		w.Begin(targets)
		report = w
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to write run report", "path", w.Path(), "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	var summary engine.RunSummary
	if isInteractive() && !debug {
		summary, err = ui.RunWithProgress(ctx, coord, targets, mode, title, report)
		if err != nil {
			return summary, err
		}
	} else {
		sink := engine.MultiSink(ui.NewConsoleSink(os.Stdout, debug), report)
		summary = coord.Execute(ctx, targets, mode, sink)
	}

	if report != nil {
		fmt.Println(ui.MutedStyle.Render("Report: " + w.Path()))
	}
	return summary, nil
}

// commandContext falls back to Background for commands run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
