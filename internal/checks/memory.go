package checks

import (
	"fmt"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/probe"
)

const (
	// externalMemoryBackend is the memory backend that shells out to a
	// locally installed vector store binary.
	externalMemoryBackend = "qdrant-local"
	defaultMemoryBinary   = "qdrant"
)

// MemoryCheck verifies that the external-binary memory backend can actually
// resolve its binary. A backend pointing at nothing silently drops memory.
type MemoryCheck struct{}

func (MemoryCheck) Name() string { return "memory" }

func (MemoryCheck) Run(cfg *config.Config, ctx *core.ScanContext) []core.Finding {
	if cfg.String("memory.backend") != externalMemoryBackend {
		return nil
	}
	bin := cfg.String("memory.binaryPath")
	if bin == "" {
		bin = defaultMemoryBinary
	}
	if probe.BinaryAvailable(bin, probe.VersionProbeTimeout) {
		return nil
	}
	return []core.Finding{{
		Code:           "MEM001",
		Severity:       core.SeverityMedium,
		Title:          "Memory backend binary not found",
		Detail:         fmt.Sprintf("memory.backend is %q but %q does not resolve on this system; persistent memory will silently fail.", externalMemoryBackend, bin),
		Recommendation: "Install the backend binary or point memory.binaryPath at it.",
		AutoFixable:    false,
		Path:           "memory.backend",
	}}
}
