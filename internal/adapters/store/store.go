// Package store implements the layer store port on top of a local
// filesystem tag directory.
package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// digestPattern matches a direct content digest reference.
var digestPattern = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)

// Store resolves layer references against a tag directory on disk. Direct
// digest references pass through without touching the filesystem; symbolic
// tags are read from one file per tag whose content is the digest.
type Store struct {
	root  string
	group singleflight.Group
}

// NewStore creates a Store rooted at the given directory. The tag directory
// lives at <root>/tags.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// DefaultRoot returns the store root in the user's home directory, falling
// back to the working directory when the home directory cannot be determined.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return domain.DefaultStorePath()
	}
	return filepath.Join(home, domain.DefaultStorePath())
}

// ResolveReference implements ports.LayerStore.
func (s *Store) ResolveReference(ctx context.Context, reference string) (string, error) {
	if digestPattern.MatchString(reference) {
		return reference, nil
	}

	// Concurrent lookups of the same tag share one filesystem read.
	digest, err, _ := s.group.Do(reference, func() (any, error) {
		return s.resolveTag(reference)
	})
	if err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	return digest.(string), nil
}

func (s *Store) resolveTag(tag string) (string, error) {
	path := filepath.Join(s.tagsDir(), tag)

	// #nosec G304 -- tag names come from user declarations, scoped to the tag dir
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", s.unknownReference(tag)
	}
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "tag", tag)
	}

	digest := strings.TrimSpace(string(content))
	if !digestPattern.MatchString(digest) {
		err := zerr.With(domain.ErrUnknownLayerReference, "tag", tag)
		return "", zerr.With(err, "reason", "tag file does not contain a valid digest")
	}
	return digest, nil
}

// unknownReference builds the not-found error, attaching similarly named tags
// when any exist.
func (s *Store) unknownReference(tag string) error {
	err := zerr.With(domain.ErrUnknownLayerReference, "reference", tag)
	if suggestions := s.similarTags(tag); len(suggestions) > 0 {
		err = zerr.With(err, "did_you_mean", strings.Join(suggestions, ", "))
	}
	return err
}

// similarTags returns known tags sharing a prefix with the requested name.
func (s *Store) similarTags(tag string) []string {
	entries, err := os.ReadDir(s.tagsDir())
	if err != nil {
		return nil
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if sharedPrefix(name, tag) >= 3 {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

func (s *Store) tagsDir() string {
	return filepath.Join(s.root, domain.TagsDirName)
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
