// Package audit assembles a full scan: it loads the configuration, builds
// the scan context (schema, version, active waivers), and runs the check
// battery. The CLI, watch mode, and the API server all go through here.
package audit

import (
	"fmt"
	"time"

	"github.com/girdav01/gateguard/internal/checks"
	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/schema"
	"github.com/girdav01/gateguard/internal/waiver"
)

// Options identifies the installation to audit.
type Options struct {
	ConfigPath string
	StateDir   string
	// Version is the detected product version string, when the caller
	// knows it. VersionSource records where it came from.
	Version       string
	VersionSource string
}

// Run loads the configuration at opts.ConfigPath and scans it. The
// returned config and context can be fed to the hardener afterwards.
func Run(opts Options) (*core.ScanResult, *config.Config, *core.ScanContext, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, err := BuildContext(cfg, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	result := Scan(cfg, ctx)
	result.ConfigIssues = config.Validate(cfg)
	return result, cfg, ctx, nil
}

// BuildContext resolves the scan context for an already-loaded config:
// version parsing, schema dialect, and the active waiver set.
func BuildContext(cfg *config.Config, opts Options) (*core.ScanContext, error) {
	version := schema.ParseVersion(opts.Version)
	source := opts.VersionSource
	if version == nil {
		source = "none"
	} else if source == "" {
		source = "cli"
	}

	var waivers []core.Waiver
	if opts.StateDir != "" {
		active, err := waiver.NewStore(opts.StateDir).Active(time.Now())
		if err != nil {
			return nil, fmt.Errorf("load waivers: %w", err)
		}
		waivers = active
	}

	return &core.ScanContext{
		ConfigPath:    opts.ConfigPath,
		StateDir:      opts.StateDir,
		RawConfig:     cfg.Raw(),
		Version:       version,
		VersionSource: source,
		Schema:        schema.Resolve(cfg, version),
		Waivers:       waivers,
	}, nil
}

// Scan runs the full check battery against one snapshot.
func Scan(cfg *config.Config, ctx *core.ScanContext) *core.ScanResult {
	return core.NewOrchestrator(checks.All()).Run(cfg, ctx)
}
