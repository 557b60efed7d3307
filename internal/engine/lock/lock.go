// Package lock generates and verifies lock snapshots for composed
// environments.
package lock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"go.trai.ch/strata/internal/build"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine produces and checks lock snapshots against a layer store.
type Engine struct {
	store ports.LayerStore

	// now and hostname are swappable for tests.
	now      func() time.Time
	hostname func() string
}

// NewEngine creates a lock Engine backed by the given layer store.
func NewEngine(store ports.LayerStore) *Engine {
	return &Engine{
		store:    store,
		now:      time.Now,
		hostname: hostName,
	}
}

// Generate freezes the composed environment: every provenance file is hashed
// and every layer reference is resolved through the store, sequentially and
// in list order. Any failure aborts immediately — partial locks are never
// produced.
func (e *Engine) Generate(ctx context.Context, composed *domain.ComposedEnvironment) (*domain.LockFile, error) {
	sources := make([]domain.SourceRecord, 0, len(composed.SourceFiles))
	for _, path := range composed.SourceFiles {
		record, err := hashSource(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, record)
	}

	layers := make([]domain.ResolvedLayer, 0, len(composed.Layers))
	for _, reference := range composed.Layers {
		digest, err := e.store.ResolveReference(ctx, reference)
		if err != nil {
			return nil, err
		}
		layers = append(layers, domain.ResolvedLayer{
			Reference:  reference,
			Digest:     digest,
			ResolvedAt: e.now().UTC(),
		})
	}

	return &domain.LockFile{
		API: domain.LockAPIVersionV0,
		Generated: domain.GenerationMetadata{
			Timestamp: e.now().UTC(),
			Version:   build.Version,
			Hostname:  e.hostname(),
		},
		Sources: sources,
		Layers:  layers,
	}, nil
}

// Verify compares a lock snapshot against the live composed environment and
// returns every detected difference. Correspondence is positional: sources[i]
// is compared with the live provenance list at position i, and likewise for
// layers. Drift is returned as data; only I/O and store failures are errors.
func (e *Engine) Verify(ctx context.Context, lock *domain.LockFile, composed *domain.ComposedEnvironment) ([]domain.Change, error) {
	var changes []domain.Change

	for i, source := range lock.Sources {
		if i >= len(composed.SourceFiles) {
			changes = append(changes, domain.Change{
				Kind:      domain.SourceFileRemoved,
				Reference: source.Path,
				Expected:  source.SHA256,
			})
			continue
		}

		actual, err := hashFile(composed.SourceFiles[i])
		if err != nil {
			return nil, err
		}
		if actual != source.SHA256 {
			changes = append(changes, domain.Change{
				Kind:      domain.SourceFileChanged,
				Reference: source.Path,
				Expected:  source.SHA256,
				Actual:    actual,
			})
		}
	}

	for i, locked := range lock.Layers {
		if i >= len(composed.Layers) {
			changes = append(changes, domain.Change{
				Kind:      domain.LayerRemoved,
				Reference: locked.Reference,
				Expected:  locked.Digest,
			})
			continue
		}

		digest, err := e.store.ResolveReference(ctx, composed.Layers[i])
		if err != nil {
			return nil, err
		}
		if digest != locked.Digest {
			changes = append(changes, domain.Change{
				Kind:      domain.LayerDigestChanged,
				Reference: locked.Reference,
				Expected:  locked.Digest,
				Actual:    digest,
			})
		}
	}

	// Live layers beyond the locked count are new; no digest comparison needed.
	for _, extra := range composed.Layers[min(len(lock.Layers), len(composed.Layers)):] {
		changes = append(changes, domain.Change{
			Kind:      domain.LayerAdded,
			Reference: extra,
		})
	}

	return changes, nil
}

func hashSource(path string) (domain.SourceRecord, error) {
	sum, err := hashFile(path)
	if err != nil {
		return domain.SourceRecord{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.SourceRecord{}, zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "path", path)
	}

	return domain.SourceRecord{
		Path:    path,
		SHA256:  sum,
		ModTime: info.ModTime().UTC(),
	}, nil
}

func hashFile(path string) (string, error) {
	// #nosec G304 -- path comes from the composed environment's provenance list
	content, err := os.ReadFile(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "path", path)
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

func hostName() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
