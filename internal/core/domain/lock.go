package domain

import "time"

// LockFile is a persisted, point-in-time snapshot of the resolved source
// hashes and layer digests of a composed environment. A lock is either
// freshly generated and written out, or loaded and compared against a live
// composition; it is never mutated in place.
type LockFile struct {
	// API is the lock schema version tag.
	API APIVersion

	// Generated records when and where this lock was produced.
	Generated GenerationMetadata

	// Sources is positionally aligned with the composed environment's
	// provenance list at generation time.
	Sources []SourceRecord

	// Layers is positionally aligned with the composed environment's layer
	// list at generation time.
	Layers []ResolvedLayer
}

// GenerationMetadata describes the context a lock was generated in.
type GenerationMetadata struct {
	Timestamp time.Time
	Version   string
	Hostname  string
}

// SourceRecord freezes one contributing declaration file.
type SourceRecord struct {
	// Path is the absolute provenance path of the declaration file.
	Path string
	// SHA256 is the hex content hash of the file at generation time.
	SHA256 string
	// ModTime is the file's modification time at generation time.
	ModTime time.Time
}

// ResolvedLayer freezes one layer reference and the digest it resolved to.
type ResolvedLayer struct {
	Reference  string
	Digest     string
	ResolvedAt time.Time
}

// ChangeKind classifies one detected difference between a lock snapshot and
// the live environment.
type ChangeKind string

const (
	// SourceFileChanged means a locked declaration file's content hash differs.
	SourceFileChanged ChangeKind = "source-file-changed"
	// SourceFileRemoved means the live composition has no source at a locked position.
	SourceFileRemoved ChangeKind = "source-file-removed"
	// LayerDigestChanged means a locked layer reference now resolves to a different digest.
	LayerDigestChanged ChangeKind = "layer-digest-changed"
	// LayerRemoved means the live composition has no layer at a locked position.
	LayerRemoved ChangeKind = "layer-removed"
	// LayerAdded means the live composition has layers beyond the locked count.
	LayerAdded ChangeKind = "layer-added"
)

// Change is one detected difference between a lock snapshot and the live
// environment. Drift is reported as data, never as an error.
type Change struct {
	// Kind classifies the difference.
	Kind ChangeKind
	// Reference is the source path or layer reference concerned.
	Reference string
	// Expected is the locked value, when one exists.
	Expected string
	// Actual is the live value, when one exists.
	Actual string
}
