package declfile

import (
	"os"
	"time"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// lockFileV0 is the on-disk schema for api: strata/v0/lock.
type lockFileV0 struct {
	API       string        `yaml:"api"`
	Generated generatedV0   `yaml:"generated"`
	Sources   []sourceV0    `yaml:"sources"`
	Layers    []lockLayerV0 `yaml:"layers"`
}

type generatedV0 struct {
	Timestamp time.Time `yaml:"timestamp"`
	Version   string    `yaml:"version"`
	Hostname  string    `yaml:"hostname"`
}

type sourceV0 struct {
	Path   string    `yaml:"path"`
	SHA256 string    `yaml:"sha256"`
	MTime  time.Time `yaml:"mtime"`
}

type lockLayerV0 struct {
	Reference  string    `yaml:"reference"`
	Digest     string    `yaml:"digest"`
	ResolvedAt time.Time `yaml:"resolved_at"`
}

// ParseLock decodes a lock snapshot from raw YAML, dispatching on the version
// tag the same way declaration parsing does.
func ParseLock(raw []byte) (*domain.LockFile, error) {
	var probe apiProbe
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return nil, zerr.Wrap(err, domain.ErrMalformedLock.Error())
	}

	if probe.API != string(domain.LockAPIVersionV0) {
		return nil, zerr.With(domain.ErrMalformedLock, "api", probe.API)
	}

	var file lockFileV0
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrMalformedLock.Error())
	}

	lock := &domain.LockFile{
		API: domain.LockAPIVersionV0,
		Generated: domain.GenerationMetadata{
			Timestamp: file.Generated.Timestamp,
			Version:   file.Generated.Version,
			Hostname:  file.Generated.Hostname,
		},
	}
	for _, src := range file.Sources {
		lock.Sources = append(lock.Sources, domain.SourceRecord{
			Path:    src.Path,
			SHA256:  src.SHA256,
			ModTime: src.MTime,
		})
	}
	for _, layer := range file.Layers {
		lock.Layers = append(lock.Layers, domain.ResolvedLayer{
			Reference:  layer.Reference,
			Digest:     layer.Digest,
			ResolvedAt: layer.ResolvedAt,
		})
	}
	return lock, nil
}

// MarshalLock encodes a lock snapshot to YAML.
func MarshalLock(lock *domain.LockFile) ([]byte, error) {
	file := lockFileV0{
		API: string(domain.LockAPIVersionV0),
		Generated: generatedV0{
			Timestamp: lock.Generated.Timestamp,
			Version:   lock.Generated.Version,
			Hostname:  lock.Generated.Hostname,
		},
	}
	for _, src := range lock.Sources {
		file.Sources = append(file.Sources, sourceV0{
			Path:   src.Path,
			SHA256: src.SHA256,
			MTime:  src.ModTime,
		})
	}
	for _, layer := range lock.Layers {
		file.Layers = append(file.Layers, lockLayerV0{
			Reference:  layer.Reference,
			Digest:     layer.Digest,
			ResolvedAt: layer.ResolvedAt,
		})
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrMalformedLock.Error())
	}
	return out, nil
}

// ReadLock loads and parses the lock file at path.
func ReadLock(path string) (*domain.LockFile, error) {
	// #nosec G304 -- path is derived from the discovery start directory
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrLockMissing, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "path", path)
	}

	lock, err := ParseLock(raw)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return lock, nil
}

// WriteLock persists a lock snapshot to path, replacing any previous one.
func WriteLock(path string, lock *domain.LockFile) error {
	out, err := MarshalLock(lock)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWriteFailed.Error()), "path", path)
	}
	return nil
}
