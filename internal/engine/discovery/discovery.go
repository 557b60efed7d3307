// Package discovery finds and orders every declaration file that applies to a
// starting directory: caller includes first, then environment includes, then
// the in-tree walk, with every declaration's own includes expanded before it
// and the local override appended last.
package discovery

import (
	"os"
	"path/filepath"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options controls discovery behavior for one run.
type Options struct {
	// NoInherit is a hard stop for the upward walk (--no-inherit).
	NoInherit bool

	// ForceInherit always walks up regardless of any file's own setting
	// (--inherit).
	ForceInherit bool

	// CLIIncludes are additional includes supplied on the command line. They
	// must be absolute or home-relative; there is no file to resolve a
	// relative entry against.
	CLIIncludes []string

	// EnvIncludes are additional includes supplied through the process
	// environment, under the same resolution rules as CLIIncludes.
	EnvIncludes []string
}

// Engine discovers declaration files. Each Discover call owns its own cycle
// detection state, so concurrent runs over independent trees are safe.
type Engine struct {
	loader ports.DeclarationLoader

	// getenv and workdir are swappable for tests.
	getenv  func(string) string
	workdir func() (string, error)
}

// NewEngine creates a discovery Engine using the given declaration loader.
func NewEngine(loader ports.DeclarationLoader) *Engine {
	return &Engine{
		loader:  loader,
		getenv:  os.Getenv,
		workdir: os.Getwd,
	}
}

// Discover returns every applicable declaration in composition order: earlier
// entries are layered first and later entries win. The returned list is
// strictly root-to-leaf, includes-before-includer, in-tree-before-override.
func (e *Engine) Discover(startPath string, opts Options) ([]*domain.Declaration, error) {
	s := &session{
		engine: e,
		seen:   make(map[string]struct{}),
	}

	var decls []*domain.Declaration

	for _, include := range opts.CLIIncludes {
		decl, err := s.loadInclude(include, "")
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	for _, include := range opts.EnvIncludes {
		decl, err := s.loadInclude(include, "")
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	start := e.resolveStartPath(startPath)
	inTree, err := s.discoverInTree(start, opts)
	if err != nil {
		return nil, err
	}
	decls = append(decls, inTree...)

	expanded, err := s.expandIncludes(decls)
	if err != nil {
		return nil, err
	}

	// The local override composes last and is never walked or expanded.
	localPath := filepath.Join(start, domain.LocalOverrideFileName)
	if isFile(localPath) {
		local, err := e.loader.Load(localPath)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, local)
	}

	return expanded, nil
}

// resolveStartPath makes startPath absolute, preferring $PWD over the
// process's own working directory so symlinks in the caller's shell context
// are preserved.
func (e *Engine) resolveStartPath(startPath string) string {
	if filepath.IsAbs(startPath) {
		return filepath.Clean(startPath)
	}
	if pwd := e.getenv("PWD"); pwd != "" {
		return filepath.Join(pwd, startPath)
	}
	wd, err := e.workdir()
	if err != nil {
		return filepath.Clean(startPath)
	}
	return filepath.Join(wd, startPath)
}

// session holds the state of one discovery run.
type session struct {
	engine *Engine

	// seen maps canonical paths already loaded in this run, for cycle
	// detection. The set lives and dies with the session.
	seen map[string]struct{}
}

// discoverInTree loads the declaration at the start directory and walks up
// parents while inheritance allows, returning declarations root-first.
func (s *session) discoverInTree(start string, opts Options) ([]*domain.Declaration, error) {
	var decls []*domain.Declaration

	startDeclPath := filepath.Join(start, domain.DeclarationFileName)
	switch {
	case isFile(startDeclPath):
		decl, err := s.loadTracked(startDeclPath)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)

		inherit := decl.Inherit
		if opts.ForceInherit {
			inherit = true
		} else if opts.NoInherit {
			inherit = false
		}
		if !inherit {
			return decls, nil
		}
	case opts.NoInherit:
		return nil, zerr.With(domain.ErrNotFoundAtPath, "path", start)
	}

	// Walk up the directory tree. Ancestors compose first, so each one found
	// is inserted at the front; its own inherit field then decides whether
	// the walk continues.
	current := start
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent

		declPath := filepath.Join(current, domain.DeclarationFileName)
		if !isFile(declPath) {
			continue
		}

		decl, err := s.loadTracked(declPath)
		if err != nil {
			return nil, err
		}
		decls = append([]*domain.Declaration{decl}, decls...)

		if !decl.Inherit {
			break
		}
	}

	if len(decls) == 0 {
		return nil, zerr.With(domain.ErrNotFoundInTree, "path", start)
	}

	return decls, nil
}

// expandIncludes resolves every declaration's includes depth-first, placing
// each include before the declaration that named it. The traversal uses an
// explicit stack so include chains are bounded by memory rather than
// goroutine stack, and the session's seen-set doubles as cycle detection.
func (s *session) expandIncludes(decls []*domain.Declaration) ([]*domain.Declaration, error) {
	type frame struct {
		decl *domain.Declaration
		next int
	}

	var out []*domain.Declaration

	for _, decl := range decls {
		stack := []frame{{decl: decl}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.next < len(top.decl.Includes) {
				include := top.decl.Includes[top.next]
				top.next++

				child, err := s.loadInclude(include, top.decl.Dir())
				if err != nil {
					return nil, err
				}
				stack = append(stack, frame{decl: child})
				continue
			}

			out = append(out, top.decl)
			stack = stack[:len(stack)-1]
		}
	}

	return out, nil
}

// loadInclude resolves one include reference and loads it, failing with
// CircularInclude if its canonical path was already loaded in this run.
func (s *session) loadInclude(include, baseDir string) (*domain.Declaration, error) {
	path, err := domain.ResolveIncludePath(include, baseDir)
	if err != nil {
		return nil, err
	}

	if _, ok := s.seen[path]; ok {
		return nil, zerr.With(domain.ErrCircularInclude, "path", path)
	}
	s.seen[path] = struct{}{}

	return s.engine.loader.Load(path)
}

// loadTracked loads an in-tree declaration file and registers its canonical
// path in the seen-set so includes pointing back at it are caught as cycles.
func (s *session) loadTracked(path string) (*domain.Declaration, error) {
	canonical := canonicalize(path)
	if _, ok := s.seen[canonical]; ok {
		return nil, zerr.With(domain.ErrCircularInclude, "path", canonical)
	}
	s.seen[canonical] = struct{}{}

	return s.engine.loader.Load(path)
}

func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		if abs, err := filepath.Abs(resolved); err == nil {
			return abs
		}
		return resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
