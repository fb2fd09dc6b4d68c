// Package core provides the foundational data models, scoring, and scan
// orchestration for GateGuard.
package core

import "time"

// Severity levels for findings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityWeights maps severity to the points subtracted from the score
// for each surviving finding.
var SeverityWeights = map[Severity]int{
	SeverityCritical: 25,
	SeverityHigh:     15,
	SeverityMedium:   8,
	SeverityLow:      3,
}

// Schema identifies which generation of field names a configuration uses.
type Schema string

const (
	SchemaLegacy  Schema = "legacy"
	SchemaCurrent Schema = "current"
	SchemaUnknown Schema = "unknown"
)

// VersionFormat tags how a detected version string is structured.
type VersionFormat string

const (
	FormatDate    VersionFormat = "date"
	FormatSemver  VersionFormat = "semver"
	FormatUnknown VersionFormat = "unknown"
)

// VersionInfo is a parsed product version as supplied by the detection
// collaborator. Raw is always the original string.
type VersionInfo struct {
	Raw    string        `json:"raw"`
	Major  int           `json:"major"`
	Minor  int           `json:"minor"`
	Patch  int           `json:"patch"`
	Format VersionFormat `json:"format"`
}

// Finding is one reported rule violation. Findings are value objects: two
// evaluations of the same input must produce identical findings.
type Finding struct {
	Code           string   `json:"code"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Detail         string   `json:"detail"`
	Recommendation string   `json:"recommendation"`
	AutoFixable    bool     `json:"auto_fixable"`
	Path           string   `json:"path,omitempty"`
}

// Waiver is a time-boxed suppression of a finding code, optionally narrowed
// to a specific field path.
type Waiver struct {
	Code      string    `json:"code"`
	Path      string    `json:"path,omitempty"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ScanContext carries the resolved, immutable facts evaluators need beyond
// the configuration itself. Loaders build it once per scan; evaluators must
// treat it as read-only.
type ScanContext struct {
	ConfigPath    string
	StateDir      string
	RawConfig     string
	Version       *VersionInfo
	VersionSource string // "cli", "package", or "none"
	Schema        Schema
	Waivers       []Waiver
}

// ScanResult is the aggregate output of one scan.
type ScanResult struct {
	Findings     []Finding        `json:"findings"`
	Score        int              `json:"score"`
	Version      *VersionInfo     `json:"version,omitempty"`
	Schema       Schema           `json:"schema"`
	WaivedCount  int              `json:"waived_count"`
	BySeverity   map[Severity]int `json:"by_severity"`
	ConfigIssues []string         `json:"config_issues,omitempty"`
}
