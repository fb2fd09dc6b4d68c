// GateGuard - static security auditor for an AI agent gateway.
// Scans the gateway configuration against a fixed rule battery, scores the
// result, and can apply a curated subset of fixes.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/girdav01/gateguard/internal/api"
	"github.com/girdav01/gateguard/internal/audit"
	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/harden"
	"github.com/girdav01/gateguard/internal/logging"
	"github.com/girdav01/gateguard/internal/reporting"
	"github.com/girdav01/gateguard/internal/waiver"
)

var version = "0.1.0"

var (
	flagConfig   string
	flagStateDir string
	flagVersion  string
	flagDebug    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "gateguard",
		Short:   "GateGuard - security auditor for agent gateway configurations",
		Long:    "Audits an agent gateway's configuration against a fixed battery of security rules, scores it, and applies curated fixes.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(flagDebug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath(), "Gateway config file to audit")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", defaultStateDir(), "Gateway state directory")
	rootCmd.PersistentFlags().StringVar(&flagVersion, "app-version", "", "Detected gateway version (e.g. 2026.1.14 or 1.4.2)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(fixCmd())
	rootCmd.AddCommand(waiverCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(serverCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func auditOptions() audit.Options {
	return audit.Options{
		ConfigPath: flagConfig,
		StateDir:   flagStateDir,
		Version:    flagVersion,
	}
}

func scanCmd() *cobra.Command {
	var (
		outputFormat string
		outputFile   string
		failOn       string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the gateway configuration and report findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, _, err := audit.Run(auditOptions())
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			switch outputFormat {
			case "json":
				report, err := reporting.GenerateJSONReport(result)
				if err != nil {
					return err
				}
				if outputFile != "" {
					return os.WriteFile(outputFile, []byte(report), 0o644)
				}
				fmt.Println(report)
			case "summary":
				report, err := reporting.GenerateJSONSummary(result)
				if err != nil {
					return err
				}
				fmt.Println(report)
			default:
				reporting.RenderConsole(os.Stdout, result)
				if outputFile != "" {
					report, _ := reporting.GenerateJSONReport(result)
					if err := os.WriteFile(outputFile, []byte(report), 0o644); err != nil {
						return err
					}
					fmt.Printf("\nFull report written to %s\n", outputFile)
				}
			}

			if failOn != "" && findingsAtOrAbove(result, core.Severity(failOn)) {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputFormat, "format", "rich", "Output format (rich, json, summary)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the JSON report to a file")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit with code 1 if findings at or above this severity")

	return cmd
}

var severityRank = map[core.Severity]int{
	core.SeverityCritical: 3,
	core.SeverityHigh:     2,
	core.SeverityMedium:   1,
	core.SeverityLow:      0,
}

func findingsAtOrAbove(result *core.ScanResult, threshold core.Severity) bool {
	rank, ok := severityRank[threshold]
	if !ok {
		return false
	}
	for _, f := range result.Findings {
		if severityRank[f.Severity] >= rank {
			return true
		}
	}
	return false
}

func fixCmd() *cobra.Command {
	var (
		dryRun bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply automatic fixes for the current findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, cfg, ctx, err := audit.Run(auditOptions())
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if len(result.Findings) == 0 {
				fmt.Println("No findings; nothing to fix.")
				return nil
			}

			opts := harden.Options{Strict: strict}

			if dryRun {
				preview := harden.PreviewChanges(cfg, result.Findings, opts, ctx)
				printList("Would apply", preview.Applied)
				printList("Filesystem fixes (not part of the config diff)", preview.NonConfig)
				printList("Skipped", preview.Skipped)
				return nil
			}

			applied := harden.ApplyFixes(cfg, result.Findings, opts, ctx)
			printList("Applied", applied.Applied)
			printList("Skipped", applied.Skipped)
			printList("Errors", applied.Errors)

			if applied.ConfigChanged {
				if err := config.Save(cfg, flagConfig); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Printf("\nConfig updated: %s\n", flagConfig)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview fixes without changing anything")
	cmd.Flags().BoolVar(&strict, "strict", false, "Unlock fixes that may break a working setup")

	return cmd
}

func printList(header string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", header)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func waiverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waiver",
		Short: "Manage finding waivers",
	}
	cmd.AddCommand(waiverAddCmd(), waiverListCmd(), waiverRemoveCmd())
	return cmd
}

func waiverAddCmd() *cobra.Command {
	var (
		path    string
		reason  string
		expires string
	)

	cmd := &cobra.Command{
		Use:   "add CODE",
		Short: "Suppress a finding code until an expiration time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expiresAt, err := parseExpiry(expires)
			if err != nil {
				return err
			}
			store := waiver.NewStore(flagStateDir)
			w := core.Waiver{
				Code:      args[0],
				Path:      path,
				Reason:    reason,
				CreatedAt: time.Now().UTC(),
				ExpiresAt: expiresAt,
			}
			if err := store.Add(w); err != nil {
				return err
			}
			fmt.Printf("Waiver added: %s expires %s\n", w.Code, w.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Narrow the waiver to an exact field path")
	cmd.Flags().StringVar(&reason, "reason", "", "Why this finding is acceptable for now")
	cmd.Flags().StringVar(&expires, "expires", "", "Expiry as a duration (720h) or RFC3339 timestamp")
	cmd.MarkFlagRequired("expires")

	return cmd
}

func parseExpiry(s string) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return time.Time{}, fmt.Errorf("expiry duration must be positive")
		}
		return time.Now().UTC().Add(d), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --expires %q: want a duration like 720h or an RFC3339 timestamp", s)
}

func waiverListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active waivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := waiver.NewStore(flagStateDir).Active(time.Now())
			if err != nil {
				return err
			}
			if len(active) == 0 {
				fmt.Println("No active waivers.")
				return nil
			}
			for _, w := range active {
				scope := ""
				if w.Path != "" {
					scope = " (" + w.Path + ")"
				}
				fmt.Printf("  %-12s%s expires %s  %s\n", w.Code, scope, w.ExpiresAt.Format("2006-01-02"), w.Reason)
			}
			return nil
		},
	}
}

func waiverRemoveCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "remove CODE",
		Short: "Delete waivers for a finding code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := waiver.NewStore(flagStateDir).Remove(args[0], path)
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Println("No matching waivers.")
				return nil
			}
			fmt.Printf("Removed %d waiver(s).\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Only remove waivers scoped to this field path")
	return cmd
}

func serverCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the local GateGuard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Starting GateGuard API server on :%d...\n", port)
			return api.NewServer(auditOptions()).Start(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8373, "Server port")
	return cmd
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gateway"
	}
	return filepath.Join(home, ".gateway")
}

func defaultConfigPath() string {
	return filepath.Join(defaultStateDir(), "gateway.yaml")
}
