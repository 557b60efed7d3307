package declfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/declfile"
	"go.trai.ch/strata/internal/core/domain"
)

func sampleLock() *domain.LockFile {
	return &domain.LockFile{
		API: domain.LockAPIVersionV0,
		Generated: domain.GenerationMetadata{
			Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Version:   "1.2.3",
			Hostname:  "buildhost",
		},
		Sources: []domain.SourceRecord{
			{
				Path:    "/repo/.strata.yaml",
				SHA256:  "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1",
				ModTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Layers: []domain.ResolvedLayer{
			{
				Reference:  "my-team/base",
				Digest:     "sha256:b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2",
				ResolvedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			},
		},
	}
}

func TestMarshalLock_Golden(t *testing.T) {
	out, err := declfile.MarshalLock(sampleLock())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "lockfile", out)
}

func TestLock_RoundTrip(t *testing.T) {
	out, err := declfile.MarshalLock(sampleLock())
	require.NoError(t, err)

	parsed, err := declfile.ParseLock(out)
	require.NoError(t, err)
	assert.Equal(t, sampleLock(), parsed)
}

func TestParseLock_WrongAPI(t *testing.T) {
	_, err := declfile.ParseLock([]byte("api: strata/v0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedLock))
}

func TestReadLock_Missing(t *testing.T) {
	_, err := declfile.ReadLock(filepath.Join(t.TempDir(), domain.LockFileName))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLockMissing))
}

func TestWriteReadLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.LockFileName)
	require.NoError(t, declfile.WriteLock(path, sampleLock()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.FilePerm), info.Mode().Perm())

	lock, err := declfile.ReadLock(path)
	require.NoError(t, err)
	assert.Equal(t, sampleLock(), lock)
}
