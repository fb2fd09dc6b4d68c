package checks

import (
	"fmt"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/schema"
)

var exposedBinds = map[string]bool{
	"lan":     true,
	"tailnet": true,
	"public":  true,
	"0.0.0.0": true,
	"::":      true,
	"all":     true,
}

var exposedHosts = map[string]bool{
	"0.0.0.0": true,
	"::":      true,
}

// NetworkCheck covers gateway exposure: bind/host reachability, control UI
// auth bypass, and hook delivery auth.
type NetworkCheck struct{}

func (NetworkCheck) Name() string { return "network" }

func (NetworkCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	var findings []core.Finding

	bind := cfg.String("gateway.bind")
	host := cfg.String("gateway.host")
	exposed := exposedBinds[bind] || exposedHosts[host]
	exposurePath := "gateway.host"
	exposureValue := host
	if exposedBinds[bind] {
		exposurePath = "gateway.bind"
		exposureValue = bind
	}

	if exposed {
		token := schema.ResolveAuthToken(cfg, ctx.Schema)
		if token == "" {
			findings = append(findings, core.Finding{
				Code:           "NET001",
				Severity:       core.SeverityCritical,
				Title:          "Gateway exposed without authentication",
				Detail:         fmt.Sprintf("The gateway listens beyond loopback (%s: %q) and no auth token is configured. Anyone who can reach the port controls the agent.", exposurePath, exposureValue),
				Recommendation: "Bind the gateway to loopback, or set a strong auth token.",
				AutoFixable:    true,
				Path:           exposurePath,
			})
		} else {
			findings = append(findings, core.Finding{
				Code:           "NET002",
				Severity:       core.SeverityMedium,
				Title:          "Gateway exposed beyond loopback",
				Detail:         fmt.Sprintf("The gateway listens beyond loopback (%s: %q). An auth token is set, but the port is still reachable from other hosts.", exposurePath, exposureValue),
				Recommendation: "Bind to loopback unless remote access is required.",
				AutoFixable:    true,
				Path:           exposurePath,
			})
		}
	}

	if cfg.Bool("gateway.controlUI.enabled") && cfg.Bool("gateway.controlUI.allowInsecureAuth") {
		findings = append(findings, core.Finding{
			Code:           "NET003",
			Severity:       core.SeverityHigh,
			Title:          "Control UI authentication bypass enabled",
			Detail:         "The control UI is enabled with allowInsecureAuth, so anyone who can open the UI acts without credentials.",
			Recommendation: "Disable allowInsecureAuth on the control UI.",
			AutoFixable:    true,
			Path:           "gateway.controlUI.allowInsecureAuth",
		})
	}

	hk := schema.ResolveHookConfig(cfg, ctx.Schema)
	if hk.Enabled {
		missingToken := ctx.Schema == core.SchemaCurrent && hk.Token == ""
		if !hk.RequireAuth || missingToken {
			detail := "Hook delivery is enabled without authentication: incoming hooks are accepted from anyone."
			// A missing hook token cannot be auto-generated; flipping
			// requireAuth without a token would not enforce anything.
			fixable := !hk.RequireAuth && !missingToken
			if missingToken && hk.RequireAuth {
				detail = "Hook delivery requires auth but no hook token is configured, so the requirement cannot be enforced."
			}
			findings = append(findings, core.Finding{
				Code:           "NET004",
				Severity:       core.SeverityHigh,
				Title:          "Hook delivery without authentication",
				Detail:         detail,
				Recommendation: "Enable requireAuth and configure a hook token.",
				AutoFixable:    fixable,
				Path:           hk.Base + ".requireAuth",
			})
		}
	}

	return findings
}
