// Package probe provides the read-only filesystem and process probes the
// checks depend on. Probe failures are never errors: a path that cannot be
// stat-ed reads as absent, a binary that cannot be executed reads as not
// found.
package probe

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// VersionProbeTimeout bounds the binary version probe.
const VersionProbeTimeout = 1500 * time.Millisecond

// FileMode returns the permission bits of path formatted in octal
// ("600", "755"), or "" when the path cannot be stat-ed.
func FileMode(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return octal(info.Mode().Perm())
}

func octal(perm os.FileMode) string {
	const digits = "01234567"
	return string([]byte{
		digits[(perm>>6)&7],
		digits[(perm>>3)&7],
		digits[perm&7],
	})
}

// OthersBits returns the "others" permission digit of an octal mode string,
// or 0 when the string is empty or malformed.
func OthersBits(mode string) int {
	if len(mode) == 0 {
		return 0
	}
	d := mode[len(mode)-1]
	if d < '0' || d > '7' {
		return 0
	}
	return int(d - '0')
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// BinaryAvailable reports whether a binary can be resolved: the path exists
// as a regular file, or a "<bin> --version" probe exits zero within the
// timeout. A timeout or non-zero exit means not found, never an error.
func BinaryAvailable(bin string, timeout time.Duration) bool {
	if bin == "" {
		return false
	}
	if FileExists(bin) {
		return true
	}
	if !strings.ContainsRune(bin, os.PathSeparator) {
		if resolved, err := exec.LookPath(bin); err == nil {
			bin = resolved
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return exec.CommandContext(ctx, bin, "--version").Run() == nil
}
