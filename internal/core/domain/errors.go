package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFoundInTree is returned when no declaration file exists at the start
	// directory or in any parent directory.
	ErrNotFoundInTree = zerr.New("no " + DeclarationFileName + " found in directory tree")

	// ErrNotFoundAtPath is returned when no declaration file exists at the start
	// directory and inheritance was explicitly disabled.
	ErrNotFoundAtPath = zerr.New(DeclarationFileName + " not found at path")

	// ErrMalformedDeclaration is returned when a declaration file cannot be parsed.
	ErrMalformedDeclaration = zerr.New("invalid " + DeclarationFileName + " file")

	// ErrReadFailed is returned when a known file cannot be read.
	ErrReadFailed = zerr.New("failed to read file")

	// ErrWriteFailed is returned when a file cannot be written.
	ErrWriteFailed = zerr.New("failed to write file")

	// ErrIncludeNotFound is returned when a resolved include path does not exist
	// or cannot be canonicalized.
	ErrIncludeNotFound = zerr.New("include file not found")

	// ErrCircularInclude is returned when a declaration file is loaded twice in
	// the same discovery run.
	ErrCircularInclude = zerr.New("circular include detected")

	// ErrValidationFailed is returned when a precondition is violated, e.g. a
	// relative include with no base directory to resolve against.
	ErrValidationFailed = zerr.New("validation failed")

	// ErrUnknownLayerReference is returned when a layer string resolves to
	// neither a digest nor a known tag.
	ErrUnknownLayerReference = zerr.New("unknown layer reference")

	// ErrLockMissing is returned when verification is requested but no lock file
	// exists at the expected path.
	ErrLockMissing = zerr.New("no lock file found")

	// ErrLockExists is returned when lock generation would overwrite an existing
	// lock file without --update or --force.
	ErrLockExists = zerr.New("lock file already exists")

	// ErrMalformedLock is returned when a lock file cannot be parsed.
	ErrMalformedLock = zerr.New("invalid " + LockFileName + " file")

	// ErrDriftDetected is returned by strict verification when the live
	// environment differs from the lock snapshot.
	ErrDriftDetected = zerr.New("environment differs from lock file")

	// ErrDeclarationExists is returned when init would overwrite an existing
	// declaration file.
	ErrDeclarationExists = zerr.New("declaration file already exists")
)
