// Package schema resolves which generation of field names a configuration
// speaks (the "legacy" or "current" dialect) and normalizes the fields that
// were renamed between generations. Evaluators never branch on the dialect
// themselves; they consume the resolved values from this package.
package schema

import (
	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
)

// Resolve decides the configuration's dialect. Priority order, first match
// wins:
//
//  1. Any current-generation marker (flat channel dmPolicy, nested
//     gateway.auth.token, a hooks block, a gateway.bind field) -> current.
//  2. Any legacy marker (nested channel dm.policy, flat gateway.authToken,
//     a webhooks block) -> legacy.
//  3. A detected version: date-format major >= 2026 or semver major >= 2
//     -> current, otherwise legacy. Unknown-format versions are skipped.
//  4. unknown.
func Resolve(cfg *config.Config, version *core.VersionInfo) core.Schema {
	if anyChannelHasFlatPolicy(cfg) || cfg.Has("gateway.auth.token") || cfg.Has("hooks") || cfg.Has("gateway.bind") {
		return core.SchemaCurrent
	}
	if anyChannelHasNestedPolicy(cfg) || cfg.Has("gateway.authToken") || cfg.Has("webhooks") {
		return core.SchemaLegacy
	}
	if version != nil {
		switch version.Format {
		case core.FormatDate:
			if version.Major >= 2026 {
				return core.SchemaCurrent
			}
			return core.SchemaLegacy
		case core.FormatSemver:
			if version.Major >= 2 {
				return core.SchemaCurrent
			}
			return core.SchemaLegacy
		}
	}
	return core.SchemaUnknown
}

func anyChannelHasFlatPolicy(cfg *config.Config) bool {
	for _, v := range cfg.Map("channels") {
		if ch, ok := v.(map[string]any); ok {
			if _, ok := ch["dmPolicy"]; ok {
				return true
			}
		}
	}
	return false
}

func anyChannelHasNestedPolicy(cfg *config.Config) bool {
	for _, v := range cfg.Map("channels") {
		ch, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if dm, ok := ch["dm"].(map[string]any); ok {
			if _, ok := dm["policy"]; ok {
				return true
			}
		}
	}
	return false
}

// ResolveAuthToken returns the gateway auth token under the given dialect.
// The token moved from the flat gateway.authToken (legacy) to the nested
// gateway.auth.token (current). Under unknown schema the current field wins
// when both generations are populated: a config carrying any
// current-generation field was written by a current-generation tool.
func ResolveAuthToken(cfg *config.Config, schema core.Schema) string {
	current := cfg.String("gateway.auth.token")
	legacy := cfg.String("gateway.authToken")
	switch schema {
	case core.SchemaCurrent:
		return current
	case core.SchemaLegacy:
		return legacy
	default:
		if current != "" {
			return current
		}
		return legacy
	}
}

// ResolveDMPolicy returns a channel's DM policy under the given dialect.
// The field moved from the nested dm.policy (legacy) to the flat dmPolicy
// (current). Same mixed-population rule as ResolveAuthToken: current wins
// under unknown schema.
func ResolveDMPolicy(channel map[string]any, schema core.Schema) string {
	var current, legacy string
	if s, ok := channel["dmPolicy"].(string); ok {
		current = s
	}
	if dm, ok := channel["dm"].(map[string]any); ok {
		if s, ok := dm["policy"].(string); ok {
			legacy = s
		}
	}
	switch schema {
	case core.SchemaCurrent:
		return current
	case core.SchemaLegacy:
		return legacy
	default:
		if current != "" {
			return current
		}
		return legacy
	}
}

// DMPolicyPath returns the dialect-correct field path of a channel's DM
// policy, for findings and fixes. Under unknown schema the path mirrors
// ResolveDMPolicy's preference.
func DMPolicyPath(cfg *config.Config, name string, schema core.Schema) string {
	current := "channels." + name + ".dmPolicy"
	legacy := "channels." + name + ".dm.policy"
	switch schema {
	case core.SchemaCurrent:
		return current
	case core.SchemaLegacy:
		return legacy
	default:
		if cfg.Has(current) || !cfg.Has(legacy) {
			return current
		}
		return legacy
	}
}

// HookConfig is the normalized webhook/hook delivery configuration. The
// block was renamed from webhooks (legacy, no token field) to hooks
// (current, token-bearing).
type HookConfig struct {
	Present     bool
	Enabled     bool
	RequireAuth bool
	Token       string
	// Base is the resolved block path ("hooks" or "webhooks").
	Base string
}

// ResolveHookConfig returns the dialect-correct hook delivery settings.
// Under unknown schema the hooks block wins when both exist.
func ResolveHookConfig(cfg *config.Config, schema core.Schema) HookConfig {
	base := ""
	switch schema {
	case core.SchemaCurrent:
		base = "hooks"
	case core.SchemaLegacy:
		base = "webhooks"
	default:
		if cfg.Has("hooks") {
			base = "hooks"
		} else if cfg.Has("webhooks") {
			base = "webhooks"
		}
	}
	if base == "" || !cfg.Has(base) {
		return HookConfig{}
	}
	return HookConfig{
		Present:     true,
		Enabled:     cfg.Bool(base + ".enabled"),
		RequireAuth: cfg.Bool(base + ".requireAuth"),
		Token:       cfg.String(base + ".token"),
		Base:        base,
	}
}
