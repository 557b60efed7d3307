package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/store"
	"go.trai.ch/strata/internal/core/domain"
)

const digest = "sha256:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func newStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, domain.TagsDirName), domain.DirPerm))
	return store.NewStore(root), root
}

func writeTag(t *testing.T, root, tag, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.TagsDirName, tag), []byte(content), domain.FilePerm))
}

func TestResolveReference_DirectDigest(t *testing.T) {
	s, _ := newStore(t)

	resolved, err := s.ResolveReference(context.Background(), digest)
	require.NoError(t, err)
	assert.Equal(t, digest, resolved)
}

func TestResolveReference_Tag(t *testing.T) {
	s, root := newStore(t)
	writeTag(t, root, "my-base", digest+"\n")

	resolved, err := s.ResolveReference(context.Background(), "my-base")
	require.NoError(t, err)
	assert.Equal(t, digest, resolved)
}

func TestResolveReference_UnknownTag(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.ResolveReference(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownLayerReference))
}

func TestResolveReference_UnknownTagSuggestsSimilarNames(t *testing.T) {
	s, root := newStore(t)
	writeTag(t, root, "my-team-base", digest)
	writeTag(t, root, "my-team-tools", digest)
	writeTag(t, root, "unrelated", digest)

	_, err := s.ResolveReference(context.Background(), "my-team-bse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownLayerReference))
	assert.Contains(t, err.Error(), "my-team-base")
	assert.NotContains(t, err.Error(), "unrelated")
}

func TestResolveReference_CorruptTagFile(t *testing.T) {
	s, root := newStore(t)
	writeTag(t, root, "broken", "not a digest")

	_, err := s.ResolveReference(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownLayerReference))
}

func TestResolveReference_InvalidDigestLengthIsATag(t *testing.T) {
	s, _ := newStore(t)

	// Too short to be a digest, so it is treated as an unknown tag.
	_, err := s.ResolveReference(context.Background(), "sha256:"+strings.Repeat("a", 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownLayerReference))
}
