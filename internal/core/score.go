package core

// Score computes the aggregate score for a set of surviving findings.
//
// Scoring starts at 100 and subtracts a fixed weight per finding:
//   - critical: -25
//   - high:     -15
//   - medium:   -8
//   - low:      -3
//
// The score is floored at 0. A scan with zero findings scores exactly 100.
func Score(findings []Finding) int {
	score := 100
	for _, f := range findings {
		score -= SeverityWeights[f.Severity]
	}
	if score < 0 {
		score = 0
	}
	return score
}

// CountBySeverity counts findings grouped by severity. Severities with no
// findings are present with a zero count.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
	}
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
