package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration file. YAML is a superset of the
// JSON the gateway writes, so a single parser covers both formats.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses configuration source text, retaining the raw bytes for
// credential scanning.
func Parse(data []byte) (*Config, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	cfg := New(root)
	cfg.raw = string(data)
	return cfg, nil
}

// Save writes the configuration tree back to path, atomically, keeping the
// format implied by the file extension (YAML unless .json).
func Save(cfg *Config, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg.root, "", "  ")
	default:
		data, err = yaml.Marshal(cfg.root)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, path)
}

// knownTopLevel lists the configuration sections the gateway understands.
var knownTopLevel = map[string]bool{
	"gateway":   true,
	"channels":  true,
	"hooks":     true,
	"webhooks":  true,
	"tools":     true,
	"shell":     true,
	"browser":   true,
	"logging":   true,
	"rateLimit": true,
	"memory":    true,
	"updates":   true,
	"skills":    true,
	"security":  true,
	"approvals": true,
}

// Validate returns schema-consistency warnings: unknown top-level keys and
// field pairs where both the legacy and current generation are populated.
// Warnings are advisory; they never block a scan.
func Validate(cfg *Config) []string {
	var issues []string

	var unknown []string
	for k := range cfg.root {
		if !knownTopLevel[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		issues = append(issues, fmt.Sprintf("unknown top-level key %q", k))
	}

	if cfg.Has("gateway.authToken") && cfg.Has("gateway.auth.token") {
		issues = append(issues, "both gateway.authToken (legacy) and gateway.auth.token (current) are set")
	}
	if cfg.Has("hooks") && cfg.Has("webhooks") {
		issues = append(issues, "both webhooks (legacy) and hooks (current) blocks are present")
	}

	channels := cfg.Map("channels")
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ch, ok := channels[name].(map[string]any)
		if !ok {
			continue
		}
		_, hasCurrent := ch["dmPolicy"]
		if dm, ok := ch["dm"].(map[string]any); ok && hasCurrent {
			if _, hasLegacy := dm["policy"]; hasLegacy {
				issues = append(issues, fmt.Sprintf("channel %q sets both dm.policy (legacy) and dmPolicy (current)", name))
			}
		}
	}

	return issues
}
