package config

import (
	"os"
	"path/filepath"
	"testing"
)

func sample() *Config {
	return New(map[string]any{
		"gateway": map[string]any{
			"host": "127.0.0.1",
			"port": 18789,
			"auth": map[string]any{"token": "secret"},
		},
		"channels": map[string]any{
			"discord": map[string]any{
				"dmPolicy":  "open",
				"allowFrom": []any{"alice", "bob"},
			},
		},
		"rateLimit": map[string]any{"enabled": false},
	})
}

func TestGetters(t *testing.T) {
	cfg := sample()

	if got := cfg.String("gateway.host"); got != "127.0.0.1" {
		t.Errorf("String(gateway.host) = %q", got)
	}
	if got := cfg.String("gateway.auth.token"); got != "secret" {
		t.Errorf("String(gateway.auth.token) = %q", got)
	}
	if got, ok := cfg.Int("gateway.port"); !ok || got != 18789 {
		t.Errorf("Int(gateway.port) = %d, %v", got, ok)
	}
	if got := cfg.StringSlice("channels.discord.allowFrom"); len(got) != 2 || got[0] != "alice" {
		t.Errorf("StringSlice(allowFrom) = %v", got)
	}
	if v, set := cfg.BoolSet("rateLimit.enabled"); !set || v {
		t.Errorf("BoolSet(rateLimit.enabled) = %v, %v", v, set)
	}
}

func TestMissingPathsAreUnset(t *testing.T) {
	cfg := sample()

	paths := []string{
		"nope",
		"gateway.nope",
		"gateway.host.deeper", // scalar in the middle of the path
		"channels.slack.dmPolicy",
	}
	for _, p := range paths {
		if cfg.Has(p) {
			t.Errorf("Has(%q) = true, want false", p)
		}
		if got := cfg.String(p); got != "" {
			t.Errorf("String(%q) = %q, want empty", p, got)
		}
		if v, set := cfg.BoolSet(p); v || set {
			t.Errorf("BoolSet(%q) = %v, %v", p, v, set)
		}
	}
}

func TestSetCreatesIntermediates(t *testing.T) {
	cfg := New(nil)
	cfg.Set("browser.sandbox", true)
	if !cfg.Bool("browser.sandbox") {
		t.Error("Set did not create nested path")
	}

	cfg.Delete("browser.sandbox")
	if cfg.Has("browser.sandbox") {
		t.Error("Delete left the value behind")
	}
	// Deleting a missing path is a no-op.
	cfg.Delete("a.b.c")
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := sample()
	clone := cfg.Clone()

	clone.Set("gateway.host", "0.0.0.0")
	clone.Set("channels.discord.dmPolicy", "allowlist")

	if got := cfg.String("gateway.host"); got != "127.0.0.1" {
		t.Errorf("original mutated through clone: host = %q", got)
	}
	if got := cfg.String("channels.discord.dmPolicy"); got != "open" {
		t.Errorf("original mutated through clone: dmPolicy = %q", got)
	}
}

func TestParseRetainsRaw(t *testing.T) {
	src := "gateway:\n  host: 0.0.0.0\n"
	cfg, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Raw() != src {
		t.Errorf("Raw() = %q", cfg.Raw())
	}
	if got := cfg.String("gateway.host"); got != "0.0.0.0" {
		t.Errorf("host = %q", got)
	}
}

func TestParseJSONConfig(t *testing.T) {
	cfg, err := Parse([]byte(`{"gateway": {"bind": "lan", "port": 18789}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := cfg.String("gateway.bind"); got != "lan" {
		t.Errorf("bind = %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")

	cfg := sample()
	cfg.Set("gateway.host", "127.0.0.1")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("saved mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := loaded.String("gateway.auth.token"); got != "secret" {
		t.Errorf("round-trip token = %q", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := New(map[string]any{
		"gateway": map[string]any{
			"authToken": "old",
			"auth":      map[string]any{"token": "new"},
		},
		"telemetry": map[string]any{},
	})
	issues := Validate(cfg)
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want 2", issues)
	}
}

func TestValidateCleanConfig(t *testing.T) {
	if issues := Validate(sample()); len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}
