package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
)

func TestMemoryBackendBinaryMissing(t *testing.T) {
	cfg := config.New(map[string]any{
		"memory": map[string]any{
			"backend":    "qdrant-local",
			"binaryPath": filepath.Join(t.TempDir(), "no-such-binary"),
		},
	})
	findings := MemoryCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "MEM001" {
		t.Errorf("findings = %v, want [MEM001]", codes(findings))
	}
}

func TestMemoryBackendBinaryPresent(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "qdrant")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.New(map[string]any{
		"memory": map[string]any{
			"backend":    "qdrant-local",
			"binaryPath": bin,
		},
	})
	if findings := (MemoryCheck{}).Run(cfg, ctxWith(core.SchemaCurrent)); len(findings) != 0 {
		t.Errorf("findings = %v, want none", codes(findings))
	}
}

func TestMemoryOtherBackendsIgnored(t *testing.T) {
	for _, backend := range []string{"", "builtin", "remote"} {
		cfg := config.New(map[string]any{
			"memory": map[string]any{"backend": backend},
		})
		if findings := (MemoryCheck{}).Run(cfg, ctxWith(core.SchemaCurrent)); len(findings) != 0 {
			t.Errorf("backend=%q: findings = %v", backend, codes(findings))
		}
	}
}
