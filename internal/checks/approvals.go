package checks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/probe"
)

// ApprovalsFileName is the execution-approvals record in the state dir.
// The file is consumed, not owned, by the auditor.
const ApprovalsFileName = "exec-approvals.json"

type approvalsEntry struct {
	Security    string   `json:"security"`
	Ask         string   `json:"ask"`
	AskFallback string   `json:"askFallback"`
	SafeBins    []string `json:"safeBins"`
}

type approvalsFile struct {
	Defaults *approvalsEntry            `json:"defaults"`
	Agents   map[string]*approvalsEntry `json:"agents"`
}

// ApprovalsCheck covers the execution-approval policy: the presence and
// contents of the approvals record for a gateway that can execute commands.
type ApprovalsCheck struct{}

func (ApprovalsCheck) Name() string { return "approvals" }

func (ApprovalsCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	var findings []core.Finding

	path := ""
	if ctx.StateDir != "" {
		path = filepath.Join(ctx.StateDir, ApprovalsFileName)
	}

	if execEffectivelyAllowed(cfg) {
		if path == "" || !probe.FileExists(path) {
			findings = append(findings, core.Finding{
				Code:           "APPROVALS001",
				Severity:       core.SeverityHigh,
				Title:          "Execution allowed without an approvals record",
				Detail:         "The exec tool is effectively allowed but no exec-approvals record exists; every command runs unreviewed.",
				Recommendation: "Create an approvals record with a restrictive default security mode.",
				AutoFixable:    false,
			})
		}
	}

	if path != "" && probe.FileExists(path) {
		findings = append(findings, approvalsFileFindings(path)...)
	}

	mode := cfg.String("approvals.mode")
	if (mode == "targets" || mode == "both") && len(cfg.Slice("approvals.targets")) == 0 {
		findings = append(findings, core.Finding{
			Code:           "APPROVALS006",
			Severity:       core.SeverityLow,
			Title:          "Approvals target mode with no targets",
			Detail:         fmt.Sprintf("Approvals mode is %q but no targets are configured, so no approval request can be delivered.", mode),
			Recommendation: "Configure at least one approvals target or switch modes.",
			AutoFixable:    false,
			Path:           "approvals.targets",
		})
	}

	return findings
}

// execEffectivelyAllowed reports whether the gateway can execute commands:
// via the exec tool, an unrestricted security mode, or the shell flag,
// unless exec is explicitly denied.
func execEffectivelyAllowed(cfg *config.Config) bool {
	if v, set := cfg.BoolSet("tools.exec.enabled"); set && !v {
		return false
	}
	for _, denied := range cfg.StringSlice("tools.deny") {
		if denied == "exec" {
			return false
		}
	}
	if cfg.Bool("tools.exec.enabled") || cfg.Bool("shell.enabled") {
		return true
	}
	if cfg.String("security.mode") == "full" {
		return true
	}
	for _, allowed := range cfg.StringSlice("tools.allow") {
		if allowed == "exec" {
			return true
		}
	}
	return false
}

func approvalsFileFindings(path string) []core.Finding {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var parsed approvalsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return []core.Finding{{
			Code:           "APPROVALS005",
			Severity:       core.SeverityMedium,
			Title:          "Approvals record is unreadable",
			Detail:         fmt.Sprintf("%s exists but fails to parse: %v.", path, err),
			Recommendation: "Repair or regenerate the approvals record.",
			AutoFixable:    false,
		}}
	}

	var findings []core.Finding
	if parsed.Defaults != nil {
		if parsed.Defaults.Security == "full" {
			findings = append(findings, core.Finding{
				Code:           "APPROVALS002",
				Severity:       core.SeverityHigh,
				Title:          "Default approvals security mode is unrestricted",
				Detail:         "The approvals record's default security mode is \"full\": commands run without review.",
				Recommendation: "Tighten the default security mode.",
				AutoFixable:    false,
			})
		}
		if parsed.Defaults.AskFallback == "full" {
			findings = append(findings, core.Finding{
				Code:           "APPROVALS003",
				Severity:       core.SeverityMedium,
				Title:          "Approvals ask-fallback is unrestricted",
				Detail:         "When an approval request cannot be delivered the record falls back to \"full\" instead of denying.",
				Recommendation: "Set the ask fallback to deny.",
				AutoFixable:    false,
			})
		}
	}

	agents := make([]string, 0, len(parsed.Agents))
	for name := range parsed.Agents {
		agents = append(agents, name)
	}
	sort.Strings(agents)
	for _, name := range agents {
		entry := parsed.Agents[name]
		if entry != nil && entry.Security == "full" {
			findings = append(findings, core.Finding{
				Code:           "APPROVALS004",
				Severity:       core.SeverityMedium,
				Title:          "Agent has unrestricted approvals",
				Detail:         fmt.Sprintf("Agent %q overrides the approvals security mode to \"full\".", name),
				Recommendation: "Remove the per-agent override or tighten it.",
				AutoFixable:    false,
			})
		}
	}
	return findings
}
