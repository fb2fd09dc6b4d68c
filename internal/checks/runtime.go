package checks

import (
	"fmt"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/probe"
)

var verboseLogLevels = map[string]bool{
	"debug": true,
	"trace": true,
}

var acceptableLogModes = map[string]bool{
	"600": true,
	"640": true,
}

// RuntimeCheck covers runtime hardening: log verbosity and permissions,
// rate limiting, browser automation, shell execution, memory persistence,
// and auto-updates.
type RuntimeCheck struct{}

func (RuntimeCheck) Name() string { return "runtime" }

func (RuntimeCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	var findings []core.Finding

	if level := cfg.String("logging.level"); verboseLogLevels[level] {
		findings = append(findings, core.Finding{
			Code:           "RUN001",
			Severity:       core.SeverityLow,
			Title:          "Verbose logging enabled",
			Detail:         fmt.Sprintf("Logging level is %q; verbose logs can capture message contents and tokens.", level),
			Recommendation: "Set the logging level to info.",
			AutoFixable:    true,
			Path:           "logging.level",
		})
	}

	if logFile := cfg.String("logging.file"); logFile != "" {
		if mode := probe.FileMode(logFile); mode != "" && !acceptableLogModes[mode] {
			findings = append(findings, core.Finding{
				Code:           "RUN002",
				Severity:       core.SeverityMedium,
				Title:          "Log file permissions too broad",
				Detail:         fmt.Sprintf("%s has mode %s; logs can contain message contents.", logFile, mode),
				Recommendation: "chmod 640 the log file.",
				AutoFixable:    true,
				Path:           "logging.file",
			})
		}
	}

	if enabled, set := cfg.BoolSet("rateLimit.enabled"); set && !enabled {
		findings = append(findings, core.Finding{
			Code:           "RUN003",
			Severity:       core.SeverityMedium,
			Title:          "Rate limiting disabled",
			Detail:         "Rate limiting is explicitly disabled; a flood of messages runs unthrottled tool calls.",
			Recommendation: "Re-enable rate limiting.",
			AutoFixable:    true,
			Path:           "rateLimit.enabled",
		})
	}

	if cfg.Bool("browser.enabled") {
		if !cfg.Bool("browser.sandbox") {
			findings = append(findings, core.Finding{
				Code:           "RUN004",
				Severity:       core.SeverityHigh,
				Title:          "Browser automation without sandbox",
				Detail:         "Browser automation is enabled and the sandbox is not; a compromised page escapes into the host.",
				Recommendation: "Enable the browser sandbox.",
				AutoFixable:    true,
				Path:           "browser.sandbox",
			})
		}
		if headless, set := cfg.BoolSet("browser.headless"); set && !headless {
			findings = append(findings, core.Finding{
				Code:           "RUN005",
				Severity:       core.SeverityLow,
				Title:          "Browser automation runs headful",
				Detail:         "Headless mode is explicitly off; a visible browser widens the attack surface and leaks activity on shared displays.",
				Recommendation: "Run the automation browser headless.",
				AutoFixable:    true,
				Path:           "browser.headless",
			})
		}
	}

	if cfg.Bool("shell.enabled") {
		allowed := cfg.StringSlice("shell.allowedCommands")
		if len(allowed) == 0 {
			findings = append(findings, core.Finding{
				Code:           "RUN006",
				Severity:       core.SeverityCritical,
				Title:          "Unrestricted shell execution enabled",
				Detail:         "Shell execution is enabled with no command allow-list; the agent can run anything.",
				Recommendation: "Disable shell execution or configure a command allow-list.",
				AutoFixable:    true,
				Path:           "shell.enabled",
			})
		} else {
			findings = append(findings, core.Finding{
				Code:           "RUN007",
				Severity:       core.SeverityMedium,
				Title:          "Shell execution enabled",
				Detail:         fmt.Sprintf("Shell execution is enabled with a %d-command allow-list; allow-listed commands can still be abused.", len(allowed)),
				Recommendation: "Review the allow-list and keep it minimal.",
				AutoFixable:    false,
				Path:           "shell.allowedCommands",
			})
		}
	}

	if cfg.Bool("memory.enabled") && !cfg.Bool("memory.encrypted") {
		findings = append(findings, core.Finding{
			Code:           "RUN008",
			Severity:       core.SeverityMedium,
			Title:          "Persistent memory is unencrypted",
			Detail:         "Conversation memory persists to disk without encryption.",
			Recommendation: "Enable memory encryption.",
			AutoFixable:    true,
			Path:           "memory.encrypted",
		})
	}

	if cfg.Bool("updates.autoInstall") {
		findings = append(findings, core.Finding{
			Code:           "RUN009",
			Severity:       core.SeverityLow,
			Title:          "Automatic update installation enabled",
			Detail:         "Updates install without review; a compromised release lands unattended.",
			Recommendation: "Switch to notify-only updates.",
			AutoFixable:    false,
			Path:           "updates.autoInstall",
		})
	}

	return findings
}
