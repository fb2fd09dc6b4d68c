package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/girdav01/gateguard/internal/core"
)

var severityOrder = []core.Severity{
	core.SeverityCritical,
	core.SeverityHigh,
	core.SeverityMedium,
	core.SeverityLow,
}

// RenderConsole writes the human-readable scan report.
func RenderConsole(w io.Writer, result *core.ScanResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GateGuard Scan Report")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "  Score:    %d/100\n", result.Score)
	fmt.Fprintf(w, "  Schema:   %s\n", result.Schema)
	if result.Version != nil {
		fmt.Fprintf(w, "  Version:  %s\n", result.Version.Raw)
	}
	fmt.Fprintf(w, "  Findings: %d", len(result.Findings))
	if result.WaivedCount > 0 {
		fmt.Fprintf(w, " (%d waived)", result.WaivedCount)
	}
	fmt.Fprintln(w)

	if len(result.Findings) > 0 {
		fmt.Fprintln(w, "\nFindings:")
		for _, f := range result.Findings {
			loc := ""
			if f.Path != "" {
				loc = " (" + f.Path + ")"
			}
			tag := " "
			if f.AutoFixable {
				tag = "*"
			}
			fmt.Fprintf(w, "  [%-8s]%s %s: %s%s\n", strings.ToUpper(string(f.Severity)), tag, f.Code, f.Title, loc)
			fmt.Fprintf(w, "             %s\n", f.Detail)
			fmt.Fprintf(w, "             fix: %s\n", f.Recommendation)
		}
		fmt.Fprintln(w, "\n  * = fixable with 'gateguard fix'")
	}

	breakdown := false
	for _, sev := range severityOrder {
		if result.BySeverity[sev] > 0 {
			breakdown = true
			break
		}
	}
	if breakdown {
		fmt.Fprintln(w, "\nSeverity Breakdown:")
		for _, sev := range severityOrder {
			if count := result.BySeverity[sev]; count > 0 {
				fmt.Fprintf(w, "  %-10s %d\n", strings.ToUpper(string(sev)), count)
			}
		}
	}

	if len(result.ConfigIssues) > 0 {
		fmt.Fprintln(w, "\nConfig Warnings:")
		for _, issue := range result.ConfigIssues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}
