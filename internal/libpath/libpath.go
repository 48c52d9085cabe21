// Package libpath computes the shared-library search path the CUDA runtime
// needs inside a conda environment.
package libpath

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/facefusion/ffinstall/internal/config"
)

// Search path variables per OS.
const (
	VarLinux   = "LD_LIBRARY_PATH"
	VarWindows = "PATH"
)

// Var returns the variable the loader searches on o, or "" when o is not patched.
func Var(o config.OS) string {
	switch o {
	case config.OSLinux:
		return VarLinux
	case config.OSWindows:
		return VarWindows
	default:
		return ""
	}
}

// Candidates returns the directories to consider, highest priority first:
// the environment's library dir, its TensorRT wheel libs, then the entries of current.
// Nothing is filtered.
func Candidates(o config.OS, prefix, current string) []string {
	var dirs []string

	switch o {
	case config.OSLinux:
		lib := filepath.Join(prefix, "lib")
		dirs = append(dirs, lib)
		if py := pythonDir(lib); py != "" {
			dirs = append(dirs, filepath.Join(py, "site-packages", "tensorrt_libs"))
		}
	case config.OSWindows:
		lib := filepath.Join(prefix, "Lib")
		dirs = append(dirs, lib, filepath.Join(lib, "site-packages", "tensorrt_libs"))
	default:
		return nil
	}

	if current != "" {
		dirs = append(dirs, strings.Split(current, o.ListSeparator())...)
	}
	return dirs
}

// Compute returns the existing candidate directories without duplicates, in first-seen order.
func Compute(o config.OS, prefix, current string) []string {
	return Dedup(Existing(Candidates(o, prefix, current)))
}

// Join joins dirs with the list separator of o.
func Join(o config.OS, dirs []string) string {
	return strings.Join(dirs, o.ListSeparator())
}

// Existing returns the paths that exist on disk.
func Existing(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Dedup removes duplicate strings while preserving order.
func Dedup(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	result := make([]string, 0, len(ss))
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// pythonDir returns the newest interpreter directory (lib/pythonX.Y) of a
// conda environment, or "" when there is none.
func pythonDir(lib string) string {
	matches, err := filepath.Glob(filepath.Join(lib, "python*"))
	if err != nil {
		slog.Debug("failed to glob python directories", "lib", lib, "error", err)
		return ""
	}

	var newest string
	var newestVersion *semver.Version
	for _, m := range matches {
		if info, err := os.Stat(m); err != nil || !info.IsDir() {
			continue
		}
		v, err := semver.NewVersion(strings.TrimPrefix(filepath.Base(m), "python"))
		if err != nil {
			slog.Debug("skipping non-interpreter directory", "path", m)
			continue
		}
		if newestVersion == nil || v.GreaterThan(newestVersion) {
			newest, newestVersion = m, v
		}
	}
	return newest
}
