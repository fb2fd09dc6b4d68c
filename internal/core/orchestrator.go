package core

import (
	"github.com/girdav01/gateguard/internal/config"
)

// Check is the interface every rule evaluator implements. Run must be a
// pure function of its inputs: no mutation of cfg or ctx, deterministic
// output for identical input.
type Check interface {
	// Name returns the evaluator's short name (also the finding code prefix).
	Name() string
	// Run evaluates the configuration and returns zero or more findings.
	Run(cfg *config.Config, ctx *ScanContext) []Finding
}

// Orchestrator runs the full check battery against one configuration
// snapshot. Checks are independent and order-insensitive; they run
// sequentially because a full scan is dominated by a couple of bounded
// filesystem probes, not CPU.
type Orchestrator struct {
	Checks []Check
}

// NewOrchestrator creates an Orchestrator over the given checks.
func NewOrchestrator(checks []Check) *Orchestrator {
	return &Orchestrator{Checks: checks}
}

// Run executes every check, filters the concatenated findings through the
// active waivers, and computes the aggregate score.
func (o *Orchestrator) Run(cfg *config.Config, ctx *ScanContext) *ScanResult {
	findings := []Finding{}
	for _, c := range o.Checks {
		findings = append(findings, c.Run(cfg, ctx)...)
	}

	filtered, waived := ApplyWaivers(findings, ctx.Waivers)

	return &ScanResult{
		Findings:    filtered,
		Score:       Score(filtered),
		Version:     ctx.Version,
		Schema:      ctx.Schema,
		WaivedCount: waived,
		BySeverity:  CountBySeverity(filtered),
	}
}
