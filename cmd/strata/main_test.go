package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/strata/internal/adapters/declfile"
	"go.trai.ch/strata/internal/adapters/logger"
	"go.trai.ch/strata/internal/adapters/store"
	"go.trai.ch/strata/internal/adapters/telemetry"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/discovery"
	"go.trai.ch/strata/internal/engine/lock"
)

const testDigest = "sha256:efefefefefefefefefefefefefefefefefefefefefefefefefefefefefefefef"

func testProvider(t *testing.T) ComponentProvider {
	t.Helper()

	log := logger.New()
	log.SetOutput(io.Discard)

	components := &app.Components{
		App: app.New(
			discovery.NewEngine(declfile.NewLoader()),
			lock.NewEngine(store.NewStore(t.TempDir())),
			log,
			telemetry.NewOTelTracer("strata-test"),
		),
		Logger: log,
	}

	return func(context.Context) (*app.Components, error) {
		return components, nil
	}
}

func projectDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	content := "api: strata/v0\nlayers:\n  - " + testDigest + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.DeclarationFileName), []byte(content), domain.FilePerm))
	return dir
}

func TestRun_InitializationFailure(t *testing.T) {
	stderr := new(bytes.Buffer)

	code := run(context.Background(), []string{"version"}, stderr, func(context.Context) (*app.Components, error) {
		return nil, errors.New("wiring failed")
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "wiring failed")
}

func TestRun_ExitCodeContract(t *testing.T) {
	dir := projectDir(t)
	provider := testProvider(t)
	stderr := new(bytes.Buffer)

	// Missing lock: exit 2.
	code := run(context.Background(), []string{"check", "-f", dir}, stderr, provider)
	assert.Equal(t, 2, code)

	// Lock, then a clean check: exit 0.
	code = run(context.Background(), []string{"lock", "-f", dir}, stderr, provider)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(dir, domain.LockFileName))

	code = run(context.Background(), []string{"check", "-f", dir}, stderr, provider)
	assert.Equal(t, 0, code)

	// Drift: exit 1.
	mutated := "api: strata/v0\nlayers:\n  - " + testDigest + "\ndescription: changed\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.DeclarationFileName), []byte(mutated), domain.FilePerm))

	code = run(context.Background(), []string{"check", "-f", dir}, stderr, provider)
	assert.Equal(t, 1, code)
}

func TestRun_LockRefusesOverwrite(t *testing.T) {
	dir := projectDir(t)
	provider := testProvider(t)
	stderr := new(bytes.Buffer)

	require.Equal(t, 0, run(context.Background(), []string{"lock", "-f", dir}, stderr, provider))
	assert.Equal(t, 1, run(context.Background(), []string{"lock", "-f", dir}, stderr, provider))
	assert.Equal(t, 0, run(context.Background(), []string{"lock", "-f", dir, "--update"}, stderr, provider))
}
