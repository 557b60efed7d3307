package domain_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/strata/internal/core/domain"
)

func TestEnvironmentID_Deterministic(t *testing.T) {
	newComposed := func() *domain.ComposedEnvironment {
		return &domain.ComposedEnvironment{
			Layers: []string{"base", "tools"},
			Environment: []domain.EnvOp{
				domain.SetEnv{Name: "A", Value: "1"},
				domain.PrependEnv{Name: "PATH", Value: "/opt/bin"},
			},
			Packages: []string{"python"},
		}
	}

	assert.Equal(t, domain.EnvironmentID(newComposed()), domain.EnvironmentID(newComposed()))
}

func TestEnvironmentID_IgnoresProvenance(t *testing.T) {
	a := &domain.ComposedEnvironment{Layers: []string{"base"}, SourceFiles: []string{"/a/.strata.yaml"}}
	b := &domain.ComposedEnvironment{Layers: []string{"base"}, SourceFiles: []string{"/b/.strata.yaml"}}

	assert.Equal(t, domain.EnvironmentID(a), domain.EnvironmentID(b))
}

func TestEnvironmentID_ChangesWithContent(t *testing.T) {
	base := &domain.ComposedEnvironment{Layers: []string{"base"}}
	other := &domain.ComposedEnvironment{Layers: []string{"base", "extra"}}

	assert.NotEqual(t, domain.EnvironmentID(base), domain.EnvironmentID(other))

	withOpts := &domain.ComposedEnvironment{
		Layers:         []string{"base"},
		PackageOptions: &domain.PackageOptions{BinaryOnly: true},
	}
	assert.NotEqual(t, domain.EnvironmentID(base), domain.EnvironmentID(withOpts))
}

func TestEnvironmentID_Format(t *testing.T) {
	id := domain.EnvironmentID(&domain.ComposedEnvironment{})
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), id)
}
