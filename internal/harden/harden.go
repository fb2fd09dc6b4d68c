// Package harden maps finding codes to remediation actions and applies the
// config-mutating ones to a copy of the configuration. Actions re-check
// their own preconditions, so applying a fix twice is a no-op.
package harden

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/girdav01/gateguard/internal/config"
	"github.com/girdav01/gateguard/internal/core"
	"github.com/girdav01/gateguard/internal/schema"
)

// Kind distinguishes fixes that rewrite the configuration from fixes that
// touch the filesystem.
type Kind string

const (
	KindConfig     Kind = "config"
	KindFilesystem Kind = "filesystem"
)

// Options gates fix application.
type Options struct {
	// Strict unlocks the strict-only fixes (ones that can break a working
	// setup, like disabling shell execution).
	Strict bool
}

type configAction func(cfg *config.Config, f core.Finding, ctx *core.ScanContext) (bool, error)

type fsAction func(cfg *config.Config, f core.Finding, ctx *core.ScanContext) error

type fixEntry struct {
	Kind       Kind
	StrictOnly bool
	Summary    string
	Config     configAction
	Filesystem fsAction
}

// fixes is the full remediation table. Codes absent here have no automatic
// fix.
var fixes = map[string]fixEntry{
	"NET001":    {Kind: KindConfig, Summary: "rebind gateway to loopback", Config: fixRebindLoopback},
	"NET002":    {Kind: KindConfig, Summary: "rebind gateway to loopback", Config: fixRebindLoopback},
	"NET003":    {Kind: KindConfig, Summary: "disable control UI auth bypass", Config: fixControlUIAuth},
	"NET004":    {Kind: KindConfig, Summary: "require auth on hook delivery", Config: fixHookAuth},
	"CRED001":   {Kind: KindFilesystem, Summary: "chmod 600 the config file", Filesystem: fixConfigFileMode},
	"CRED003":   {Kind: KindFilesystem, Summary: "chmod 600 the .env file", Filesystem: fixEnvFileMode},
	"CRED004":   {Kind: KindFilesystem, Summary: "remove world bits from the state directory", Filesystem: fixStateDirMode},
	"ACCESS001": {Kind: KindConfig, Summary: "set DM policy to allowlist", Config: fixDMPolicy},
	"ACCESS003": {Kind: KindConfig, Summary: "require @mention in group", Config: fixRequireMention},
	"RUN001":    {Kind: KindConfig, Summary: "set logging level to info", Config: fixLogLevel},
	"RUN002":    {Kind: KindFilesystem, Summary: "chmod 640 the log file", Filesystem: fixLogFileMode},
	"RUN003":    {Kind: KindConfig, Summary: "re-enable rate limiting", Config: fixRateLimit},
	"RUN004":    {Kind: KindConfig, StrictOnly: true, Summary: "enable the browser sandbox", Config: fixBrowserSandbox},
	"RUN005":    {Kind: KindConfig, Summary: "run the browser headless", Config: fixBrowserHeadless},
	"RUN006":    {Kind: KindConfig, StrictOnly: true, Summary: "disable shell execution", Config: fixShellExec},
	"RUN008":    {Kind: KindConfig, Summary: "enable memory encryption", Config: fixMemoryEncryption},
}

// Preview is the dry-run result: the mutated copy plus per-code outcomes.
type Preview struct {
	Config    *config.Config
	Applied   []string
	Skipped   []string
	NonConfig []string
}

// ApplyResult reports the outcome of a real fix run. ConfigChanged tells
// the caller whether the in-memory config needs persisting; filesystem
// fixes alone leave it false.
type ApplyResult struct {
	Applied       []string
	Skipped       []string
	Errors        []string
	ConfigChanged bool
}

// PreviewChanges applies every config-mutating fix to a copy of the
// configuration and classifies the rest, without touching the filesystem.
func PreviewChanges(cfg *config.Config, findings []core.Finding, opts Options, ctx *core.ScanContext) *Preview {
	p := &Preview{Config: cfg.Clone()}
	for _, f := range findings {
		entry, ok := fixes[f.Code]
		switch {
		case !ok:
			p.Skipped = append(p.Skipped, f.Code+": no automatic fix")
		case entry.StrictOnly && !opts.Strict:
			p.Skipped = append(p.Skipped, f.Code+": requires strict mode")
		case entry.Kind == KindFilesystem:
			p.NonConfig = append(p.NonConfig, f.Code+": "+entry.Summary)
		default:
			changed, err := runConfigAction(entry.Config, p.Config, f, ctx)
			switch {
			case err != nil:
				p.Skipped = append(p.Skipped, fmt.Sprintf("%s: fix failed: %v", f.Code, err))
			case changed:
				p.Applied = append(p.Applied, f.Code+": "+entry.Summary)
			default:
				p.Skipped = append(p.Skipped, f.Code+": condition not met")
			}
		}
	}
	return p
}

// ApplyFixes mutates cfg in place and executes filesystem fixes. One
// failing fix never blocks the others; failures come back as per-code
// error strings. The caller persists cfg afterwards.
func ApplyFixes(cfg *config.Config, findings []core.Finding, opts Options, ctx *core.ScanContext) *ApplyResult {
	r := &ApplyResult{}
	for _, f := range findings {
		entry, ok := fixes[f.Code]
		switch {
		case !ok:
			r.Skipped = append(r.Skipped, f.Code+": no automatic fix")
		case entry.StrictOnly && !opts.Strict:
			r.Skipped = append(r.Skipped, f.Code+": requires strict mode")
		case entry.Kind == KindFilesystem:
			if err := runFSAction(entry.Filesystem, cfg, f, ctx); err != nil {
				r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", f.Code, err))
			} else {
				r.Applied = append(r.Applied, f.Code+": "+entry.Summary)
			}
		default:
			changed, err := runConfigAction(entry.Config, cfg, f, ctx)
			switch {
			case err != nil:
				r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", f.Code, err))
			case changed:
				r.Applied = append(r.Applied, f.Code+": "+entry.Summary)
				r.ConfigChanged = true
			default:
				r.Skipped = append(r.Skipped, f.Code+": condition not met")
			}
		}
	}
	return r
}

func runConfigAction(action configAction, cfg *config.Config, f core.Finding, ctx *core.ScanContext) (changed bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			changed = false
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return action(cfg, f, ctx)
}

func runFSAction(action fsAction, cfg *config.Config, f core.Finding, ctx *core.ScanContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return action(cfg, f, ctx)
}

func fixRebindLoopback(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	bind := cfg.String("gateway.bind")
	host := cfg.String("gateway.host")
	exposed := map[string]bool{"lan": true, "tailnet": true, "public": true, "0.0.0.0": true, "::": true, "all": true}[bind] ||
		host == "0.0.0.0" || host == "::"
	if !exposed {
		return false, nil
	}
	if cfg.Has("gateway.bind") {
		cfg.Set("gateway.bind", "loopback")
	}
	cfg.Set("gateway.host", "127.0.0.1")
	return true, nil
}

func fixControlUIAuth(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	if !cfg.Bool("gateway.controlUI.allowInsecureAuth") {
		return false, nil
	}
	cfg.Set("gateway.controlUI.allowInsecureAuth", false)
	return true, nil
}

func fixHookAuth(cfg *config.Config, _ core.Finding, ctx *core.ScanContext) (bool, error) {
	hk := schema.ResolveHookConfig(cfg, ctx.Schema)
	if !hk.Present || !hk.Enabled || hk.RequireAuth {
		return false, nil
	}
	// A missing hook token cannot be fixed here: the auditor will not
	// invent a secret, and requireAuth without a token enforces nothing.
	if ctx.Schema == core.SchemaCurrent && hk.Token == "" {
		return false, nil
	}
	cfg.Set(hk.Base+".requireAuth", true)
	return true, nil
}

func fixDMPolicy(cfg *config.Config, f core.Finding, _ *core.ScanContext) (bool, error) {
	if f.Path == "" || cfg.String(f.Path) != "open" {
		return false, nil
	}
	cfg.Set(f.Path, "allowlist")
	return true, nil
}

func fixRequireMention(cfg *config.Config, f core.Finding, _ *core.ScanContext) (bool, error) {
	if f.Path == "" || cfg.Bool(f.Path) {
		return false, nil
	}
	cfg.Set(f.Path, true)
	return true, nil
}

func fixLogLevel(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	level := cfg.String("logging.level")
	if level != "debug" && level != "trace" {
		return false, nil
	}
	cfg.Set("logging.level", "info")
	return true, nil
}

func fixRateLimit(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	if enabled, set := cfg.BoolSet("rateLimit.enabled"); !set || enabled {
		return false, nil
	}
	cfg.Set("rateLimit.enabled", true)
	return true, nil
}

func fixBrowserSandbox(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	if !cfg.Bool("browser.enabled") || cfg.Bool("browser.sandbox") {
		return false, nil
	}
	cfg.Set("browser.sandbox", true)
	return true, nil
}

func fixBrowserHeadless(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	headless, set := cfg.BoolSet("browser.headless")
	if !cfg.Bool("browser.enabled") || !set || headless {
		return false, nil
	}
	cfg.Set("browser.headless", true)
	return true, nil
}

func fixShellExec(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	if !cfg.Bool("shell.enabled") {
		return false, nil
	}
	cfg.Set("shell.enabled", false)
	return true, nil
}

func fixMemoryEncryption(cfg *config.Config, _ core.Finding, _ *core.ScanContext) (bool, error) {
	if !cfg.Bool("memory.enabled") || cfg.Bool("memory.encrypted") {
		return false, nil
	}
	cfg.Set("memory.encrypted", true)
	return true, nil
}

func fixConfigFileMode(_ *config.Config, _ core.Finding, ctx *core.ScanContext) error {
	if ctx.ConfigPath == "" {
		return fmt.Errorf("no config path resolved")
	}
	return os.Chmod(ctx.ConfigPath, 0o600)
}

func fixEnvFileMode(_ *config.Config, _ core.Finding, ctx *core.ScanContext) error {
	if ctx.StateDir == "" {
		return fmt.Errorf("no state directory resolved")
	}
	return os.Chmod(filepath.Join(ctx.StateDir, ".env"), 0o600)
}

func fixStateDirMode(_ *config.Config, _ core.Finding, ctx *core.ScanContext) error {
	if ctx.StateDir == "" {
		return fmt.Errorf("no state directory resolved")
	}
	info, err := os.Stat(ctx.StateDir)
	if err != nil {
		return err
	}
	return os.Chmod(ctx.StateDir, info.Mode().Perm()&^0o007)
}

func fixLogFileMode(cfg *config.Config, _ core.Finding, _ *core.ScanContext) error {
	logFile := cfg.String("logging.file")
	if logFile == "" {
		return fmt.Errorf("no log file configured")
	}
	return os.Chmod(logFile, 0o640)
}
