// Package declfile reads and writes strata declaration and lock files.
package declfile

import (
	"os"
	"path/filepath"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.DeclarationLoader using YAML files.
type Loader struct{}

var _ ports.DeclarationLoader = (*Loader)(nil)

// NewLoader creates a new declaration file Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Parse decodes a declaration from raw YAML. Parsing is two-staged: the
// version tag is extracted first and selects the concrete schema. The
// returned declaration has no provenance path.
func (l *Loader) Parse(raw []byte) (*domain.Declaration, error) {
	var probe apiProbe
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return nil, malformed(err, raw)
	}

	switch probe.API {
	case string(domain.APIVersionV0):
		var file declarationV0
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, malformed(err, raw)
		}
		return file.toDomain()
	default:
		err := zerr.With(domain.ErrMalformedDeclaration, "api", probe.API)
		return nil, zerr.With(err, "yaml", string(raw))
	}
}

// Load reads and parses the declaration file at path, stamping the result's
// provenance with the resolved absolute path.
func (l *Loader) Load(path string) (*domain.Declaration, error) {
	// #nosec G304 -- path comes from discovery over the caller's own tree
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "path", path)
	}

	decl, err := l.Parse(raw)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReadFailed.Error()), "path", path)
	}
	decl.SourcePath = abs

	return decl, nil
}

// Marshal encodes a declaration back to YAML. Provenance is not serialized.
func (l *Loader) Marshal(decl *domain.Declaration) ([]byte, error) {
	out, err := yaml.Marshal(declarationToV0(decl))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrMalformedDeclaration.Error())
	}
	return out, nil
}

func malformed(err error, raw []byte) error {
	wrapped := zerr.Wrap(err, domain.ErrMalformedDeclaration.Error())
	return zerr.With(wrapped, "yaml", string(raw))
}
