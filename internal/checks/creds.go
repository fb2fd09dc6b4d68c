package checks

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/probe"
)

type keyPattern struct {
	Provider string
	Pattern  *regexp.Regexp
}

// Plaintext API-key shapes matched against the raw config text.
var keyPatterns = []keyPattern{
	{"Anthropic", regexp.MustCompile(`sk-ant-[A-Za-z0-9-]{20,}`)},
	{"OpenAI", regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{"GitHub", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`)},
	{"Slack", regexp.MustCompile(`xox[baprs]-[A-Za-z0-9-]{10,}`)},
}

// CredentialCheck covers credential hygiene: config and state file
// permissions plus plaintext API keys in the config source.
type CredentialCheck struct{}

func (CredentialCheck) Name() string { return "creds" }

func (CredentialCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	var findings []core.Finding

	if mode := probe.FileMode(ctx.ConfigPath); mode != "" && mode != "600" {
		findings = append(findings, core.Finding{
			Code:           "CRED001",
			Severity:       core.SeverityHigh,
			Title:          "Config file is not owner-only",
			Detail:         fmt.Sprintf("%s has mode %s; it holds tokens and should be readable only by its owner.", ctx.ConfigPath, mode),
			Recommendation: "chmod 600 the config file.",
			AutoFixable:    true,
		})
	}

	raw := ctx.RawConfig
	if raw == "" {
		raw = cfg.Raw()
	}
	// Anthropic keys also match the broader OpenAI shape; report each
	// region once under the most specific provider.
	claimed := make([]int, 0, 4)
	for _, kp := range keyPatterns {
		loc := kp.Pattern.FindStringIndex(raw)
		if loc == nil {
			continue
		}
		overlap := false
		for i := 0; i+1 < len(claimed); i += 2 {
			if loc[0] >= claimed[i] && loc[0] < claimed[i+1] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		claimed = append(claimed, loc[0], loc[1])
		line := strings.Count(raw[:loc[0]], "\n") + 1
		findings = append(findings, core.Finding{
			Code:           "CRED002",
			Severity:       core.SeverityHigh,
			Title:          "Plaintext API key in config",
			Detail:         fmt.Sprintf("A %s API key appears in plaintext on line %d of the config.", kp.Provider, line),
			Recommendation: "Move the key into an environment variable or a secrets manager and rotate it.",
			AutoFixable:    false,
		})
	}

	if ctx.StateDir != "" {
		envPath := filepath.Join(ctx.StateDir, ".env")
		if mode := probe.FileMode(envPath); mode != "" && mode != "600" {
			findings = append(findings, core.Finding{
				Code:           "CRED003",
				Severity:       core.SeverityHigh,
				Title:          ".env file is not owner-only",
				Detail:         fmt.Sprintf("%s has mode %s.", envPath, mode),
				Recommendation: "chmod 600 the .env file.",
				AutoFixable:    true,
			})
		}

		if mode := probe.FileMode(ctx.StateDir); mode != "" && probe.OthersBits(mode) != 0 {
			findings = append(findings, core.Finding{
				Code:           "CRED004",
				Severity:       core.SeverityMedium,
				Title:          "State directory readable by others",
				Detail:         fmt.Sprintf("%s has mode %s; other local users can read agent state.", ctx.StateDir, mode),
				Recommendation: "Remove the world bits from the state directory.",
				AutoFixable:    true,
			})
		}
	}

	return findings
}
