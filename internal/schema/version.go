package schema

import (
	"regexp"
	"strconv"

	"github.com/girdav01/gateguard/internal/core"
)

var (
	dateVersionRe   = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})$`)
	semverVersionRe = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:[-+].*)?$`)
)

// ParseVersion classifies a raw version string as date-formatted
// (2026.1.14, four-digit year major) or semver-formatted (1.2.3). Strings
// matching neither get FormatUnknown and do not participate in schema
// inference.
func ParseVersion(raw string) *core.VersionInfo {
	if raw == "" {
		return nil
	}
	if m := dateVersionRe.FindStringSubmatch(raw); m != nil {
		return &core.VersionInfo{
			Raw:    raw,
			Major:  atoi(m[1]),
			Minor:  atoi(m[2]),
			Patch:  atoi(m[3]),
			Format: core.FormatDate,
		}
	}
	if m := semverVersionRe.FindStringSubmatch(raw); m != nil {
		return &core.VersionInfo{
			Raw:    raw,
			Major:  atoi(m[1]),
			Minor:  atoi(m[2]),
			Patch:  atoi(m[3]),
			Format: core.FormatSemver,
		}
	}
	return &core.VersionInfo{Raw: raw, Format: core.FormatUnknown}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
