package ports

import "go.trai.ch/strata/internal/core/domain"

// DeclarationLoader defines the interface for loading declaration files.
//
//go:generate mockgen -source=declaration_loader.go -destination=mocks/mock_declaration_loader.go -package=mocks
type DeclarationLoader interface {
	// Load reads and parses the declaration file at path, stamping the
	// returned declaration's provenance with the path it was loaded from.
	Load(path string) (*domain.Declaration, error)
}
