// Package reporting renders scan results for the CLI.
package reporting

import (
	"encoding/json"

	"github.com/girdav01/gateguard/internal/core"
)

// GenerateJSONReport renders the full scan result as indented JSON.
func GenerateJSONReport(result *core.ScanResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateJSONSummary renders a concise summary without per-finding detail.
func GenerateJSONSummary(result *core.ScanResult) (string, error) {
	summary := map[string]any{
		"score":        result.Score,
		"schema":       result.Schema,
		"findings":     len(result.Findings),
		"waived":       result.WaivedCount,
		"by_severity":  result.BySeverity,
		"config_valid": len(result.ConfigIssues) == 0,
	}
	if result.Version != nil {
		summary["version"] = result.Version.Raw
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
