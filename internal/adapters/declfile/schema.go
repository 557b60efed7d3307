package declfile

import (
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
)

// apiProbe extracts only the version tag from a raw document so the full
// schema can be selected before the rest is decoded.
type apiProbe struct {
	API string `yaml:"api"`
}

// declarationV0 is the on-disk schema for api: strata/v0.
type declarationV0 struct {
	API            string            `yaml:"api"`
	Description    string            `yaml:"description,omitempty"`
	Inherit        bool              `yaml:"inherit,omitempty"`
	Includes       []string          `yaml:"includes,omitempty"`
	Layers         []string          `yaml:"layers,omitempty"`
	Environment    []envOpV0         `yaml:"environment,omitempty"`
	Contents       []bindMountV0     `yaml:"contents,omitempty"`
	Packages       []string          `yaml:"packages,omitempty"`
	PackageOptions *packageOptionsV0 `yaml:"package_options,omitempty"`
}

type bindMountV0 struct {
	Bind     string `yaml:"bind"`
	Dest     string `yaml:"dest"`
	Readonly bool   `yaml:"readonly,omitempty"`
}

type packageOptionsV0 struct {
	// BinaryOnly defaults to true when omitted.
	BinaryOnly   *bool    `yaml:"binary_only,omitempty"`
	Repositories []string `yaml:"repositories,omitempty"`
	Solver       string   `yaml:"solver,omitempty"`
}

// envOpV0 is one entry of the `environment:` list. Exactly one of the
// set/prepend/append/comment/priority keys selects the operation kind.
type envOpV0 struct {
	Set       string  `yaml:"set,omitempty"`
	Prepend   string  `yaml:"prepend,omitempty"`
	Append    string  `yaml:"append,omitempty"`
	Value     string  `yaml:"value,omitempty"`
	Separator string  `yaml:"separator,omitempty"`
	Comment   *string `yaml:"comment,omitempty"`
	Priority  *int    `yaml:"priority,omitempty"`
}

func (op envOpV0) toDomain() (domain.EnvOp, error) {
	kinds := 0
	if op.Set != "" {
		kinds++
	}
	if op.Prepend != "" {
		kinds++
	}
	if op.Append != "" {
		kinds++
	}
	if op.Comment != nil {
		kinds++
	}
	if op.Priority != nil {
		kinds++
	}
	if kinds != 1 {
		err := zerr.With(domain.ErrMalformedDeclaration, "reason",
			"environment entry must name exactly one of set, prepend, append, comment, priority")
		return nil, err
	}

	switch {
	case op.Set != "":
		return domain.SetEnv{Name: op.Set, Value: op.Value}, nil
	case op.Prepend != "":
		return domain.PrependEnv{Name: op.Prepend, Value: op.Value, Separator: op.Separator}, nil
	case op.Append != "":
		return domain.AppendEnv{Name: op.Append, Value: op.Value, Separator: op.Separator}, nil
	case op.Comment != nil:
		return domain.CommentEnv{Text: *op.Comment}, nil
	default:
		return domain.PriorityEnv{Value: *op.Priority}, nil
	}
}

func envOpFromDomain(op domain.EnvOp) envOpV0 {
	switch v := op.(type) {
	case domain.SetEnv:
		return envOpV0{Set: v.Name, Value: v.Value}
	case domain.PrependEnv:
		return envOpV0{Prepend: v.Name, Value: v.Value, Separator: v.Separator}
	case domain.AppendEnv:
		return envOpV0{Append: v.Name, Value: v.Value, Separator: v.Separator}
	case domain.CommentEnv:
		text := v.Text
		return envOpV0{Comment: &text}
	case domain.PriorityEnv:
		value := v.Value
		return envOpV0{Priority: &value}
	default:
		return envOpV0{}
	}
}

func (d *declarationV0) toDomain() (*domain.Declaration, error) {
	decl := &domain.Declaration{
		API:         domain.APIVersionV0,
		Description: d.Description,
		Inherit:     d.Inherit,
		Includes:    d.Includes,
		Layers:      d.Layers,
		Packages:    d.Packages,
	}

	for _, op := range d.Environment {
		domainOp, err := op.toDomain()
		if err != nil {
			return nil, err
		}
		decl.Environment = append(decl.Environment, domainOp)
	}

	for _, bind := range d.Contents {
		decl.Contents = append(decl.Contents, domain.BindMount{
			Bind:     bind.Bind,
			Dest:     bind.Dest,
			Readonly: bind.Readonly,
		})
	}

	if d.PackageOptions != nil {
		opts := &domain.PackageOptions{
			BinaryOnly:   true,
			Repositories: d.PackageOptions.Repositories,
			Solver:       d.PackageOptions.Solver,
		}
		if d.PackageOptions.BinaryOnly != nil {
			opts.BinaryOnly = *d.PackageOptions.BinaryOnly
		}
		decl.PackageOptions = opts
	}

	return decl, nil
}

func declarationToV0(decl *domain.Declaration) *declarationV0 {
	out := &declarationV0{
		API:         string(domain.APIVersionV0),
		Description: decl.Description,
		Inherit:     decl.Inherit,
		Includes:    decl.Includes,
		Layers:      decl.Layers,
		Packages:    decl.Packages,
	}

	for _, op := range decl.Environment {
		out.Environment = append(out.Environment, envOpFromDomain(op))
	}

	for _, bind := range decl.Contents {
		out.Contents = append(out.Contents, bindMountV0{
			Bind:     bind.Bind,
			Dest:     bind.Dest,
			Readonly: bind.Readonly,
		})
	}

	if opts := decl.PackageOptions; opts != nil {
		binaryOnly := opts.BinaryOnly
		out.PackageOptions = &packageOptionsV0{
			BinaryOnly:   &binaryOnly,
			Repositories: opts.Repositories,
			Solver:       opts.Solver,
		}
	}

	return out
}
