package checks

import (
	"fmt"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
)

// defaultRedirectCeiling is the web-fetch tool's safe redirect limit.
const defaultRedirectCeiling = 3

// WebToolCheck covers the outbound web-fetch tool policy.
type WebToolCheck struct{}

func (WebToolCheck) Name() string { return "webtool" }

func (WebToolCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	if !cfg.Bool("tools.web.fetch.enabled") {
		return nil
	}
	limit, set := cfg.Int("tools.web.fetch.maxRedirects")
	if !set || limit <= defaultRedirectCeiling {
		return nil
	}
	return []core.Finding{{
		Code:           "WEB001",
		Severity:       core.SeverityMedium,
		Title:          "Web fetch redirect limit raised",
		Detail:         fmt.Sprintf("maxRedirects is %d (default ceiling %d); long redirect chains ease SSRF pivoting.", limit, defaultRedirectCeiling),
		Recommendation: fmt.Sprintf("Keep maxRedirects at or below %d.", defaultRedirectCeiling),
		AutoFixable:    false,
		Path:           "tools.web.fetch.maxRedirects",
	}}
}
