// Package checks implements the rule battery: eight independent, stateless
// evaluators mapping a configuration snapshot to findings. Every check
// tolerates arbitrarily partial configurations; an empty config always
// evaluates to zero findings.
package checks

import "github.com/girdav01/gateguard/internal/core"

// All returns the full check battery in reporting order. The checks are
// order-independent; this order only fixes the presentation.
func All() []core.Check {
	return []core.Check{
		NetworkCheck{},
		CredentialCheck{},
		AccessCheck{},
		SkillCheck{},
		RuntimeCheck{},
		ApprovalsCheck{},
		WebToolCheck{},
		MemoryCheck{},
	}
}
