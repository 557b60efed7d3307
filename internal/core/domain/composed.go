package domain

// ComposedEnvironment is the ordered merge of every declaration that applies
// to one discovery run. It is derived once per run and read-only thereafter.
type ComposedEnvironment struct {
	// Layers is the concatenation of every declaration's layer list, in
	// composition order. Duplicates are preserved verbatim; the layer store's
	// own precedence rules decide what a repeated reference means.
	Layers []string

	// Environment is the concatenation of every declaration's operations.
	Environment []EnvOp

	// Contents is the concatenation of every declaration's bind mounts.
	Contents []BindMount

	// Packages is the concatenation of every declaration's package requests.
	Packages []string

	// PackageOptions is the last non-nil value seen across declarations.
	PackageOptions *PackageOptions

	// SourceFiles lists the provenance path of every contributing declaration
	// that has one, in composition order. In-memory declarations contribute
	// their other fields but leave no provenance trace.
	SourceFiles []string
}

// HasLayers reports whether the environment references any layers.
func (c *ComposedEnvironment) HasLayers() bool {
	return len(c.Layers) > 0
}

// SourceCount returns the number of provenance paths recorded.
func (c *ComposedEnvironment) SourceCount() int {
	return len(c.SourceFiles)
}

// Compose folds an ordered list of declarations into one environment. Later
// declarations layer on top of earlier ones. The fold only concatenates; it
// never deduplicates, reorders, or mutates its inputs, and it has no error
// conditions of its own.
func Compose(decls []*Declaration) *ComposedEnvironment {
	composed := &ComposedEnvironment{}

	for _, decl := range decls {
		composed.Layers = append(composed.Layers, decl.Layers...)
		composed.Environment = append(composed.Environment, decl.Environment...)
		composed.Contents = append(composed.Contents, decl.Contents...)
		composed.Packages = append(composed.Packages, decl.Packages...)

		if decl.PackageOptions != nil {
			composed.PackageOptions = decl.PackageOptions
		}

		if decl.SourcePath != "" {
			composed.SourceFiles = append(composed.SourceFiles, decl.SourcePath)
		}
	}

	return composed
}
