package checks

import (
	"fmt"
	"sort"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/schema"
)

// AccessCheck covers per-channel messaging policy: DM policy, allow-list
// population, and group mention requirements.
type AccessCheck struct{}

func (AccessCheck) Name() string { return "access" }

func (AccessCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	channels := cfg.Map("channels")
	if len(channels) == 0 {
		return nil
	}

	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []core.Finding
	for _, name := range names {
		ch, ok := channels[name].(map[string]any)
		if !ok {
			continue
		}
		policy := schema.ResolveDMPolicy(ch, ctx.Schema)
		policyPath := schema.DMPolicyPath(cfg, name, ctx.Schema)

		if policy == "open" {
			findings = append(findings, core.Finding{
				Code:           "ACCESS001",
				Severity:       core.SeverityHigh,
				Title:          "Channel accepts DMs from anyone",
				Detail:         fmt.Sprintf("Channel %q has an open DM policy; any account can message the agent directly.", name),
				Recommendation: "Set the DM policy to allowlist.",
				AutoFixable:    true,
				Path:           policyPath,
			})
		}

		// The population check is meaningless under an allowlist policy:
		// an empty allowlist already blocks everyone.
		if policy != "allowlist" && !hasNonEmptyAllowList(ch) {
			findings = append(findings, core.Finding{
				Code:           "ACCESS002",
				Severity:       core.SeverityMedium,
				Title:          "Channel has no sender allow-list",
				Detail:         fmt.Sprintf("Channel %q has no allowFrom entries and its DM policy is not allowlist.", name),
				Recommendation: "Populate allowFrom with the accounts that may contact the agent.",
				AutoFixable:    false,
				Path:           "channels." + name + ".allowFrom",
			})
		}

		findings = append(findings, groupMentionFindings(name, ch)...)
	}
	return findings
}

func hasNonEmptyAllowList(ch map[string]any) bool {
	list, ok := ch["allowFrom"].([]any)
	return ok && len(list) > 0
}

func groupMentionFindings(channel string, ch map[string]any) []core.Finding {
	groups, ok := ch["groups"].(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	var findings []core.Finding
	for _, g := range names {
		grp, ok := groups[g].(map[string]any)
		if !ok {
			continue
		}
		if require, ok := grp["requireMention"].(bool); ok && require {
			continue
		}
		findings = append(findings, core.Finding{
			Code:           "ACCESS003",
			Severity:       core.SeverityMedium,
			Title:          "Group does not require @mention",
			Detail:         fmt.Sprintf("Group %q in channel %q triggers the agent on every message instead of only on @mentions.", g, channel),
			Recommendation: "Set requireMention on the group.",
			AutoFixable:    true,
			Path:           fmt.Sprintf("channels.%s.groups.%s.requireMention", channel, g),
		})
	}
	return findings
}
