package domain

import "path/filepath"

const (
	// DeclarationFileName is the name of the per-directory environment declaration.
	DeclarationFileName = ".strata.yaml"

	// LocalOverrideFileName is the name of the local override file. It is applied
	// last, with the highest priority, and is never subject to inheritance.
	LocalOverrideFileName = ".strata.local.yaml"

	// LockFileName is the name of the lock snapshot file.
	LockFileName = ".strata.lock.yaml"

	// StrataDirName is the name of the internal metadata directory.
	StrataDirName = ".strata"

	// TagsDirName is the name of the layer tag directory inside the store root.
	TagsDirName = "tags"

	// IncludeEnvVar carries additional include paths, colon-separated.
	IncludeEnvVar = "STRATA_INCLUDE"

	// InheritEnvVar forces in-tree inheritance when truthy.
	InheritEnvVar = "STRATA_INHERIT"

	// NoInheritEnvVar disables in-tree inheritance when truthy.
	NoInheritEnvVar = "STRATA_NO_INHERIT"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the default root directory of the local layer store.
func DefaultStorePath() string {
	return StrataDirName
}

// DefaultTagsPath returns the default directory holding layer tag files.
func DefaultTagsPath() string {
	return filepath.Join(StrataDirName, TagsDirName)
}
