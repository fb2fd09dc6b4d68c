package checks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
)

// officialPrefix marks extensions distributed through the official registry.
const officialPrefix = "official:"

// maliciousSkills are extension names with confirmed malicious behavior.
// A match short-circuits every other per-extension check.
var maliciousSkills = map[string]bool{
	"crypto-miner-helper":  true,
	"wallet-drainer":       true,
	"credential-harvester": true,
	"token-stealer-pro":    true,
	"clipboard-hijacker":   true,
}

// riskySkills are extension names with a history of abuse or an inherently
// dangerous purpose.
var riskySkills = map[string]bool{
	"auto-trader":     true,
	"defi-yield-bot":  true,
	"remote-shell":    true,
	"system-cleaner":  true,
	"keylogger-debug": true,
}

// dangerousPermissions grant an extension capabilities that defeat the
// gateway's own sandboxing.
var dangerousPermissions = map[string]bool{
	"fs:write":         true,
	"fs:delete":        true,
	"shell:exec":       true,
	"net:unrestricted": true,
	"credentials:read": true,
}

type skillEntry struct {
	Name         string
	Source       string
	Verified     bool
	Checksum     string
	Permissions  []string
	HeartbeatURL string
}

// SkillCheck covers installed-extension risk: known-bad names, dangerous
// permissions, unverified third-party sources, missing checksums, and
// heartbeat beacons.
type SkillCheck struct{}

func (SkillCheck) Name() string { return "skills" }

func (SkillCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	raw := cfg.Slice("skills")
	if len(raw) == 0 {
		return nil
	}

	var findings []core.Finding
	var unverified, beaconing []string

	for _, v := range raw {
		entry, ok := parseSkill(v)
		if !ok || entry.Name == "" {
			continue
		}

		if maliciousSkills[entry.Name] {
			findings = append(findings, core.Finding{
				Code:           "SKILL001",
				Severity:       core.SeverityCritical,
				Title:          "Known-malicious extension installed",
				Detail:         fmt.Sprintf("Extension %q is on the known-malicious list.", entry.Name),
				Recommendation: "Remove the extension immediately and rotate any credentials it could reach.",
				AutoFixable:    false,
				Path:           "skills",
			})
			continue
		}

		if riskySkills[entry.Name] {
			findings = append(findings, core.Finding{
				Code:           "SKILL002",
				Severity:       core.SeverityHigh,
				Title:          "Known-risky extension installed",
				Detail:         fmt.Sprintf("Extension %q is on the known-risky list.", entry.Name),
				Recommendation: "Review whether this extension is genuinely needed.",
				AutoFixable:    false,
				Path:           "skills",
			})
		}

		official := strings.HasPrefix(entry.Source, officialPrefix)

		if !entry.Verified && !official {
			unverified = append(unverified, entry.Name)
		}

		if perms := dangerousPermsOf(entry); len(perms) > 0 {
			findings = append(findings, core.Finding{
				Code:           "SKILL004",
				Severity:       core.SeverityHigh,
				Title:          "Extension holds dangerous permissions",
				Detail:         fmt.Sprintf("Extension %q declares: %s.", entry.Name, strings.Join(perms, ", ")),
				Recommendation: "Remove the extension or narrow its permission grants.",
				AutoFixable:    false,
				Path:           "skills",
			})
		}

		if entry.Checksum == "" && !official {
			findings = append(findings, core.Finding{
				Code:           "SKILL005",
				Severity:       core.SeverityLow,
				Title:          "Extension has no integrity checksum",
				Detail:         fmt.Sprintf("Extension %q is not from the official registry and carries no checksum; tampering cannot be detected.", entry.Name),
				Recommendation: "Pin the extension to a published checksum.",
				AutoFixable:    false,
				Path:           "skills",
			})
		}

		if entry.HeartbeatURL != "" {
			beaconing = append(beaconing, entry.Name)
		}
	}

	if len(unverified) > 0 {
		sort.Strings(unverified)
		findings = append(findings, core.Finding{
			Code:           "SKILL003",
			Severity:       core.SeverityMedium,
			Title:          "Unverified third-party extensions installed",
			Detail:         fmt.Sprintf("Unverified extensions from non-official sources: %s.", strings.Join(unverified, ", ")),
			Recommendation: "Prefer verified extensions from the official registry.",
			AutoFixable:    false,
			Path:           "skills",
		})
	}

	if len(beaconing) > 0 {
		sort.Strings(beaconing)
		findings = append(findings, core.Finding{
			Code:           "SKILL006",
			Severity:       core.SeverityMedium,
			Title:          "Extensions declare heartbeat URLs",
			Detail:         fmt.Sprintf("Extensions phoning home on a heartbeat: %s.", strings.Join(beaconing, ", ")),
			Recommendation: "Verify each heartbeat endpoint or remove the extensions.",
			AutoFixable:    false,
			Path:           "skills",
		})
	}

	return findings
}

func parseSkill(v any) (skillEntry, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return skillEntry{}, false
	}
	entry := skillEntry{}
	if s, ok := m["name"].(string); ok {
		entry.Name = s
	}
	if s, ok := m["source"].(string); ok {
		entry.Source = s
	}
	if b, ok := m["verified"].(bool); ok {
		entry.Verified = b
	}
	if s, ok := m["checksum"].(string); ok {
		entry.Checksum = s
	}
	if s, ok := m["heartbeatURL"].(string); ok {
		entry.HeartbeatURL = s
	}
	if perms, ok := m["permissions"].([]any); ok {
		for _, p := range perms {
			if s, ok := p.(string); ok {
				entry.Permissions = append(entry.Permissions, s)
			}
		}
	}
	return entry, true
}

func dangerousPermsOf(entry skillEntry) []string {
	var out []string
	for _, p := range entry.Permissions {
		if dangerousPermissions[p] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
