package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/girdav01/gateguard/internal/audit"
	"github.com/girdav01/gateguard/internal/logging"
	"github.com/girdav01/gateguard/internal/reporting"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the gateway config and re-scan on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Watching %s... (Ctrl+C to stop)\n", flagConfig)
			return runWatch(auditOptions(), nil)
		},
	}
}

// runWatch re-scans on every config change, debounced so editors that
// write in multiple events trigger a single scan. Editors that replace
// the file (rename-over) drop the watch, so the parent directory is
// watched and events filtered by name.
func runWatch(opts audit.Options, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(opts.ConfigPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	lastScore := scanAndReport(opts, -1)

	const debounce = 300 * time.Millisecond
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-stop:
			return nil
		case <-fire:
			lastScore = scanAndReport(opts, lastScore)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(opts.ConfigPath) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warnw("watch error", "err", err)
		}
	}
}

func scanAndReport(opts audit.Options, previousScore int) int {
	result, _, _, err := audit.Run(opts)
	if err != nil {
		logging.Logger.Errorw("scan failed", "err", err)
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		return previousScore
	}
	reporting.RenderConsole(os.Stdout, result)
	if previousScore >= 0 && result.Score != previousScore {
		fmt.Printf("\nScore changed: %d -> %d\n", previousScore, result.Score)
	}
	return result.Score
}
