// Package domain holds the core data model for strata: environment
// declarations, composed environments, and lock snapshots.
package domain

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// APIVersion identifies the schema of a declaration file.
type APIVersion string

const (
	// APIVersionV0 is the only declaration schema version in existence today.
	APIVersionV0 APIVersion = "strata/v0"

	// LockAPIVersionV0 is the only lock file schema version in existence today.
	LockAPIVersionV0 APIVersion = "strata/v0/lock"
)

// PackageOptions controls package resolution for the composed environment.
type PackageOptions struct {
	// BinaryOnly resolves packages in binary-only mode (no source builds).
	BinaryOnly bool

	// Repositories lists additional repositories to search, by name.
	Repositories []string

	// Solver optionally selects a solver implementation.
	Solver string
}

// BindMount describes one entry of a declaration's `contents:` list.
type BindMount struct {
	// Bind is the source path on the host (relative, absolute, or `~/`).
	Bind string

	// Dest is the destination path inside the runtime.
	Dest string

	// Readonly marks the bind as read-only.
	Readonly bool
}

// ResolveSource resolves the bind source against the declaring file's
// directory, following the same precedence as includes: home-relative,
// absolute, then relative to declDir. The result is canonicalized so
// downstream runtime builders always receive a real path.
func (b BindMount) ResolveSource(declDir string) (string, error) {
	var path string
	switch {
	case strings.HasPrefix(b.Bind, "~"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", zerr.Wrap(err, ErrValidationFailed.Error())
		}
		path = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(b.Bind, "~"), "/"))
	case filepath.IsAbs(b.Bind):
		path = b.Bind
	default:
		if declDir == "" {
			return "", zerr.With(ErrValidationFailed, "bind", b.Bind)
		}
		path = filepath.Join(declDir, b.Bind)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrValidationFailed.Error()), "bind_source", path)
	}
	return resolved, nil
}

// Declaration is one parsed environment declaration file. Declarations are
// immutable once loaded; composition never mutates them.
type Declaration struct {
	// API is the schema version tag.
	API APIVersion

	// Description is an optional human-readable description.
	Description string

	// Inherit controls in-tree discovery. When false (the default), discovery
	// stops walking up the directory tree at this file. Defaulting to false
	// keeps untrusted parent directories from injecting configuration.
	Inherit bool

	// Includes lists out-of-tree declaration files loaded before this one.
	// Entries may be absolute, home-relative (~/), or relative to this file.
	Includes []string

	// Layers lists layer references (tags or digests) in application order.
	Layers []string

	// Environment lists environment variable operations in application order.
	Environment []EnvOp

	// Contents lists bind mounts into the runtime.
	Contents []BindMount

	// Packages lists package request strings.
	Packages []string

	// PackageOptions optionally overrides package resolution behavior.
	PackageOptions *PackageOptions

	// SourcePath is the absolute path this declaration was loaded from. It is
	// empty for declarations synthesized in memory and is never serialized.
	SourcePath string
}

// Dir returns the directory containing the declaration file, or the empty
// string for in-memory declarations.
func (d *Declaration) Dir() string {
	if d.SourcePath == "" {
		return ""
	}
	return filepath.Dir(d.SourcePath)
}

// ResolveIncludes resolves every include entry of this declaration to an
// absolute canonical path, using the declaration's own directory as the base
// for relative entries.
func (d *Declaration) ResolveIncludes() ([]string, error) {
	if d.SourcePath == "" && len(d.Includes) > 0 {
		return nil, zerr.With(ErrValidationFailed, "reason", "cannot resolve includes without a source path")
	}

	resolved := make([]string, 0, len(d.Includes))
	for _, include := range d.Includes {
		path, err := ResolveIncludePath(include, d.Dir())
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, path)
	}
	return resolved, nil
}

// ResolveIncludePath resolves one include reference to an absolute canonical
// path. Home-relative entries resolve against the caller's home directory,
// absolute entries are used as-is, and anything else resolves against baseDir.
// An empty baseDir for a relative entry is a hard error.
func ResolveIncludePath(include, baseDir string) (string, error) {
	var path string
	switch {
	case strings.HasPrefix(include, "~"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, ErrValidationFailed.Error()), "include", include)
		}
		path = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(include, "~"), "/"))
	case filepath.IsAbs(include):
		path = include
	default:
		if baseDir == "" {
			err := zerr.With(ErrValidationFailed, "include", include)
			return "", zerr.With(err, "reason", "relative include requires a base directory")
		}
		path = filepath.Join(baseDir, include)
	}

	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrIncludeNotFound.Error()), "path", path)
	}
	if !filepath.IsAbs(canonical) {
		canonical, err = filepath.Abs(canonical)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, ErrIncludeNotFound.Error()), "path", path)
		}
	}
	return canonical, nil
}
