// Package app implements the application layer for strata.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/strata/internal/adapters/declfile"
	"go.trai.ch/strata/internal/adapters/telemetry"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/strata/internal/engine/discovery"
	"go.trai.ch/strata/internal/engine/lock"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	discovery *discovery.Engine
	locker    *lock.Engine
	logger    ports.Logger
	tracer    ports.Tracer
}

// New creates a new App instance.
func New(
	disc *discovery.Engine,
	locker *lock.Engine,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		discovery: disc,
		locker:    locker,
		logger:    log,
		tracer:    tracer,
	}
}

// SetupOTel configures the OpenTelemetry SDK so that spans started through
// otel.Tracer are reported to the logger bridge.
func SetupOTel(log ports.Logger) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(log)),
	)
	otel.SetTracerProvider(tp)
}

// DiscoverOptions configures declaration discovery for an operation.
type DiscoverOptions struct {
	// StartPath is a declaration file or a directory to start from.
	// Empty means the current working directory.
	StartPath string
	// NoInherit stops the upward walk at the start directory.
	NoInherit bool
	// ForceInherit walks up regardless of the per-file inherit setting.
	ForceInherit bool
	// Includes are additional declaration files supplied on the command line.
	Includes []string
	// EnvIncludes are additional declaration files supplied by the process
	// environment.
	EnvIncludes []string
}

// Environment is the fully resolved result of discovery plus composition.
type Environment struct {
	// Files lists every declaration file that contributed, in apply order.
	Files []string
	// Composed is the merged environment description.
	Composed *domain.ComposedEnvironment
	// ID is the 64-bit fingerprint of the composed environment.
	ID string
}

// Resolve discovers all applicable declaration files and composes them into
// one environment description.
func (a *App) Resolve(ctx context.Context, opts DiscoverOptions) (*Environment, error) {
	_, span := a.tracer.Start(ctx, "resolve")
	defer span.End()

	decls, err := a.discovery.Discover(opts.StartPath, discovery.Options{
		NoInherit:    opts.NoInherit,
		ForceInherit: opts.ForceInherit,
		CLIIncludes:  opts.Includes,
		EnvIncludes:  opts.EnvIncludes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	composed := domain.Compose(decls)
	env := &Environment{
		Files:    composed.SourceFiles,
		Composed: composed,
		ID:       domain.EnvironmentID(composed),
	}

	span.SetAttribute("files", len(env.Files))
	span.SetAttribute("layers", len(composed.Layers))
	span.SetAttribute("environment_id", env.ID)
	a.logger.Debug(fmt.Sprintf("resolved environment %s from %d file(s)", env.ID, len(env.Files)))

	return env, nil
}

// LockOptions configuration for the Lock method.
type LockOptions struct {
	DiscoverOptions
	// Update allows overwriting an existing lock file.
	Update bool
}

// Lock resolves the environment, freezes it into a lock snapshot, and writes
// the snapshot next to the start directory. An existing lock file is only
// replaced when Update is set.
func (a *App) Lock(ctx context.Context, opts LockOptions) (*domain.LockFile, string, error) {
	ctx, span := a.tracer.Start(ctx, "lock")
	defer span.End()

	env, err := a.Resolve(ctx, opts.DiscoverOptions)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	path := a.lockPath(opts.StartPath)
	if _, statErr := os.Stat(path); statErr == nil && !opts.Update {
		err := zerr.With(domain.ErrLockExists, "path", path)
		span.RecordError(err)
		return nil, "", err
	}

	snapshot, err := a.locker.Generate(ctx, env.Composed)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	if err := declfile.WriteLock(path, snapshot); err != nil {
		span.RecordError(err)
		return nil, "", err
	}

	a.logger.Info(fmt.Sprintf("locked environment %s (%d source(s), %d layer(s))",
		env.ID, len(snapshot.Sources), len(snapshot.Layers)))

	return snapshot, path, nil
}

// Check verifies the live environment against the stored lock snapshot.
// Detected differences are returned as data; a missing lock file surfaces
// as domain.ErrLockMissing.
func (a *App) Check(ctx context.Context, opts DiscoverOptions) ([]domain.Change, error) {
	ctx, span := a.tracer.Start(ctx, "check")
	defer span.End()

	snapshot, err := declfile.ReadLock(a.lockPath(opts.StartPath))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	env, err := a.Resolve(ctx, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	changes, err := a.locker.Verify(ctx, snapshot, env.Composed)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("changes", len(changes))
	return changes, nil
}

// Init writes a starter declaration file into dir, refusing to overwrite an
// existing one unless force is set. It returns the path of the written file.
func (a *App) Init(_ context.Context, dir string, force bool) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, domain.DeclarationFileName)

	if _, err := os.Stat(path); err == nil && !force {
		return "", zerr.With(domain.ErrDeclarationExists, "path", path)
	}

	if err := os.WriteFile(path, []byte(starterDeclaration), domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrWriteFailed.Error()), "path", path)
	}

	a.logger.Info("created " + path)
	return path, nil
}

// lockPath returns the lock file location for a start path: next to the
// declaration file, or inside the start directory.
func (a *App) lockPath(startPath string) string {
	dir := startPath
	if dir == "" {
		dir = "."
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, domain.LockFileName)
}

const starterDeclaration = `api: strata/v0
description: ""

# Walk parent directories for additional declarations.
inherit: false

# Additional declaration files to merge before this one.
# includes:
#   - ~/shared/.strata.yaml

# Layer references, applied in order. Digests or tags.
# layers:
#   - my-team/base
#   - sha256:0000000000000000000000000000000000000000000000000000000000000000

# Environment operations, applied in order.
# environment:
#   - set: MY_VAR
#     value: hello
#   - prepend: PATH
#     value: /opt/tools/bin
`
