package checks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
)

func TestRuntimeVerboseLogging(t *testing.T) {
	for _, level := range []string{"debug", "trace"} {
		cfg := config.New(map[string]any{
			"logging": map[string]any{"level": level},
		})
		findings := RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
		if len(findings) != 1 || findings[0].Code != "RUN001" {
			t.Errorf("level=%q: findings = %v, want [RUN001]", level, codes(findings))
		}
	}

	cfg := config.New(map[string]any{
		"logging": map[string]any{"level": "info"},
	})
	if findings := (RuntimeCheck{}).Run(cfg, ctxWith(core.SchemaCurrent)); len(findings) != 0 {
		t.Errorf("level=info: findings = %v", codes(findings))
	}
}

func TestRuntimeLogFileMode(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "gateway.log")
	if err := os.WriteFile(logFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.New(map[string]any{
		"logging": map[string]any{"file": logFile},
	})
	findings := RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "RUN002" {
		t.Fatalf("findings = %v, want [RUN002]", codes(findings))
	}

	for _, mode := range []os.FileMode{0o600, 0o640} {
		if err := os.Chmod(logFile, mode); err != nil {
			t.Fatal(err)
		}
		if findings := (RuntimeCheck{}).Run(cfg, ctxWith(core.SchemaCurrent)); len(findings) != 0 {
			t.Errorf("mode=%o: findings = %v", mode, codes(findings))
		}
	}
}

func TestRuntimeMissingLogFileIgnored(t *testing.T) {
	cfg := config.New(map[string]any{
		"logging": map[string]any{"file": filepath.Join(t.TempDir(), "absent.log")},
	})
	if findings := (RuntimeCheck{}).Run(cfg, ctxWith(core.SchemaCurrent)); len(findings) != 0 {
		t.Errorf("findings = %v", codes(findings))
	}
}

func TestRuntimeRateLimitExplicitFalseOnly(t *testing.T) {
	cfg := config.New(map[string]any{
		"rateLimit": map[string]any{"enabled": false},
	})
	findings := RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "RUN003" {
		t.Fatalf("findings = %v, want [RUN003]", codes(findings))
	}

	// Absent is not the same as explicitly disabled.
	if findings := (RuntimeCheck{}).Run(config.New(nil), ctxWith(core.SchemaCurrent)); len(findings) != 0 {
		t.Errorf("absent rateLimit: findings = %v", codes(findings))
	}
}

func TestRuntimeBrowser(t *testing.T) {
	tests := []struct {
		name    string
		browser map[string]any
		want    []string
	}{
		{"enabled without sandbox", map[string]any{"enabled": true}, []string{"RUN004"}},
		{"enabled with sandbox", map[string]any{"enabled": true, "sandbox": true}, nil},
		{"headful", map[string]any{"enabled": true, "sandbox": true, "headless": false}, []string{"RUN005"}},
		{"headless unset", map[string]any{"enabled": true, "sandbox": true}, nil},
		{"disabled ignores sandbox", map[string]any{"enabled": false, "headless": false}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New(map[string]any{"browser": tt.browser})
			got := codes(RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent)))
			if len(got) != len(tt.want) {
				t.Fatalf("findings = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("findings = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRuntimeShell(t *testing.T) {
	cfg := config.New(map[string]any{
		"shell": map[string]any{"enabled": true},
	})
	findings := RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "RUN006" {
		t.Fatalf("findings = %v, want [RUN006]", codes(findings))
	}
	if findings[0].Severity != core.SeverityCritical || !findings[0].AutoFixable {
		t.Errorf("finding = %+v", findings[0])
	}

	cfg.Set("shell.allowedCommands", []any{"git", "ls"})
	findings = RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "RUN007" {
		t.Fatalf("findings = %v, want [RUN007]", codes(findings))
	}
	if findings[0].AutoFixable {
		t.Error("RUN007 must not be auto-fixable")
	}
}

func TestRuntimeMemoryEncryption(t *testing.T) {
	cfg := config.New(map[string]any{
		"memory": map[string]any{"enabled": true},
	})
	findings := RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "RUN008" {
		t.Fatalf("findings = %v, want [RUN008]", codes(findings))
	}

	cfg.Set("memory.encrypted", true)
	if findings := (RuntimeCheck{}).Run(cfg, ctxWith(core.SchemaCurrent)); len(findings) != 0 {
		t.Errorf("encrypted: findings = %v", codes(findings))
	}
}

func TestRuntimeAutoInstall(t *testing.T) {
	cfg := config.New(map[string]any{
		"updates": map[string]any{"autoInstall": true},
	})
	findings := RuntimeCheck{}.Run(cfg, ctxWith(core.SchemaCurrent))
	if len(findings) != 1 || findings[0].Code != "RUN009" {
		t.Errorf("findings = %v, want [RUN009]", codes(findings))
	}
}

func TestRuntimeEmptyConfig(t *testing.T) {
	if findings := (RuntimeCheck{}).Run(config.New(nil), ctxWith(core.SchemaUnknown)); len(findings) != 0 {
		t.Errorf("empty config: findings = %v", codes(findings))
	}
}
