package lock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(store *mocks.MockLayerStore) *Engine {
	e := NewEngine(store)
	e.now = func() time.Time { return fixedTime }
	e.hostname = func() string { return "testhost" }
	return e
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func sha256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func TestGenerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	store.EXPECT().ResolveReference(gomock.Any(), "my-team/base").Return("sha256:aaa", nil)
	store.EXPECT().ResolveReference(gomock.Any(), "my-team/tools").Return("sha256:bbb", nil)

	dir := t.TempDir()
	source := writeSource(t, dir, domain.DeclarationFileName, "api: strata/v0\n")

	composed := &domain.ComposedEnvironment{
		Layers:      []string{"my-team/base", "my-team/tools"},
		SourceFiles: []string{source},
	}

	snapshot, err := newTestEngine(store).Generate(context.Background(), composed)
	require.NoError(t, err)

	assert.Equal(t, domain.LockAPIVersionV0, snapshot.API)
	assert.Equal(t, fixedTime, snapshot.Generated.Timestamp)
	assert.Equal(t, "testhost", snapshot.Generated.Hostname)

	require.Len(t, snapshot.Sources, 1)
	assert.Equal(t, source, snapshot.Sources[0].Path)
	assert.Equal(t, sha256Hex("api: strata/v0\n"), snapshot.Sources[0].SHA256)
	assert.False(t, snapshot.Sources[0].ModTime.IsZero())

	require.Len(t, snapshot.Layers, 2)
	assert.Equal(t, domain.ResolvedLayer{Reference: "my-team/base", Digest: "sha256:aaa", ResolvedAt: fixedTime}, snapshot.Layers[0])
	assert.Equal(t, domain.ResolvedLayer{Reference: "my-team/tools", Digest: "sha256:bbb", ResolvedAt: fixedTime}, snapshot.Layers[1])
}

func TestGenerate_StoreFailureAbortsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	storeErr := errors.New("store unavailable")
	store.EXPECT().ResolveReference(gomock.Any(), "first").Return("", storeErr)
	// The second reference must never be resolved.

	composed := &domain.ComposedEnvironment{Layers: []string{"first", "second"}}

	_, err := newTestEngine(store).Generate(context.Background(), composed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
}

func TestGenerate_MissingSourceFileIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)

	composed := &domain.ComposedEnvironment{
		SourceFiles: []string{filepath.Join(t.TempDir(), "gone.yaml")},
	}

	_, err := newTestEngine(store).Generate(context.Background(), composed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrReadFailed))
}

func TestVerify_CleanRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	store.EXPECT().ResolveReference(gomock.Any(), "base").Return("sha256:aaa", nil).Times(2)

	dir := t.TempDir()
	source := writeSource(t, dir, domain.DeclarationFileName, "api: strata/v0\n")

	composed := &domain.ComposedEnvironment{
		Layers:      []string{"base"},
		SourceFiles: []string{source},
	}

	engine := newTestEngine(store)
	snapshot, err := engine.Generate(context.Background(), composed)
	require.NoError(t, err)

	changes, err := engine.Verify(context.Background(), snapshot, composed)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestVerify_SourceFileChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)

	dir := t.TempDir()
	source := writeSource(t, dir, domain.DeclarationFileName, "api: strata/v0\n")

	snapshot := &domain.LockFile{
		Sources: []domain.SourceRecord{{Path: source, SHA256: sha256Hex("api: strata/v0\n")}},
	}

	writeSource(t, dir, domain.DeclarationFileName, "api: strata/v0\nlayers:\n  - new\n")

	changes, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{
		SourceFiles: []string{source},
	})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, domain.SourceFileChanged, changes[0].Kind)
	assert.Equal(t, source, changes[0].Reference)
	assert.Equal(t, sha256Hex("api: strata/v0\n"), changes[0].Expected)
	assert.Equal(t, sha256Hex("api: strata/v0\nlayers:\n  - new\n"), changes[0].Actual)
}

func TestVerify_SourceFileRemoved(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)

	snapshot := &domain.LockFile{
		Sources: []domain.SourceRecord{{Path: "/gone/.strata.yaml", SHA256: "abc"}},
	}

	changes, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, domain.SourceFileRemoved, changes[0].Kind)
	assert.Equal(t, "/gone/.strata.yaml", changes[0].Reference)
	assert.Equal(t, "abc", changes[0].Expected)
}

func TestVerify_LayerDigestChanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	store.EXPECT().ResolveReference(gomock.Any(), "base").Return("sha256:new", nil)

	snapshot := &domain.LockFile{
		Layers: []domain.ResolvedLayer{{Reference: "base", Digest: "sha256:old"}},
	}

	changes, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{
		Layers: []string{"base"},
	})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, domain.LayerDigestChanged, changes[0].Kind)
	assert.Equal(t, "sha256:old", changes[0].Expected)
	assert.Equal(t, "sha256:new", changes[0].Actual)
}

func TestVerify_LayerRemoved(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)

	snapshot := &domain.LockFile{
		Layers: []domain.ResolvedLayer{{Reference: "base", Digest: "sha256:aaa"}},
	}

	changes, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, domain.LayerRemoved, changes[0].Kind)
	assert.Equal(t, "base", changes[0].Reference)
}

func TestVerify_LayerAdded(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	store.EXPECT().ResolveReference(gomock.Any(), "base").Return("sha256:aaa", nil)
	// Layers beyond the locked count are reported without a store lookup.

	snapshot := &domain.LockFile{
		Layers: []domain.ResolvedLayer{{Reference: "base", Digest: "sha256:aaa"}},
	}

	changes, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{
		Layers: []string{"base", "extra"},
	})
	require.NoError(t, err)

	require.Len(t, changes, 1)
	assert.Equal(t, domain.LayerAdded, changes[0].Kind)
	assert.Equal(t, "extra", changes[0].Reference)
}

func TestVerify_StoreFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	storeErr := errors.New("store unavailable")
	store.EXPECT().ResolveReference(gomock.Any(), "base").Return("", storeErr)

	snapshot := &domain.LockFile{
		Layers: []domain.ResolvedLayer{{Reference: "base", Digest: "sha256:aaa"}},
	}

	_, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{
		Layers: []string{"base"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
}

func TestVerify_PositionalCorrespondence(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockLayerStore(ctrl)
	store.EXPECT().ResolveReference(gomock.Any(), "b").Return("sha256:bbb", nil)
	store.EXPECT().ResolveReference(gomock.Any(), "a").Return("sha256:aaa", nil)

	// Swapping two layers without changing their content still drifts,
	// because correspondence is by list position.
	snapshot := &domain.LockFile{
		Layers: []domain.ResolvedLayer{
			{Reference: "a", Digest: "sha256:aaa"},
			{Reference: "b", Digest: "sha256:bbb"},
		},
	}

	changes, err := newTestEngine(store).Verify(context.Background(), snapshot, &domain.ComposedEnvironment{
		Layers: []string{"b", "a"},
	})
	require.NoError(t, err)

	require.Len(t, changes, 2)
	assert.Equal(t, domain.LayerDigestChanged, changes[0].Kind)
	assert.Equal(t, domain.LayerDigestChanged, changes[1].Kind)
}
