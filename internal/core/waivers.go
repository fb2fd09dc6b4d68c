package core

// ApplyWaivers removes findings matched by an active waiver and returns the
// surviving findings in their original order plus the number removed.
//
// A waiver matches a finding when the codes are equal and, if the waiver
// carries a path, the finding's path equals it exactly. A waiver without a
// path matches any finding with its code. Expiry is not checked here: the
// store excludes expired records before they reach this filter.
func ApplyWaivers(findings []Finding, waivers []Waiver) ([]Finding, int) {
	if len(waivers) == 0 {
		return findings, 0
	}
	kept := make([]Finding, 0, len(findings))
	waived := 0
	for _, f := range findings {
		if waiverMatches(f, waivers) {
			waived++
			continue
		}
		kept = append(kept, f)
	}
	return kept, waived
}

func waiverMatches(f Finding, waivers []Waiver) bool {
	for _, w := range waivers {
		if w.Code != f.Code {
			continue
		}
		if w.Path != "" && w.Path != f.Path {
			continue
		}
		return true
	}
	return false
}
