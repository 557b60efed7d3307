package domain

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// EnvironmentID computes a 64-bit fingerprint of a composed environment. Two
// compositions with the same layers, operations, binds, packages, and options
// share an ID regardless of which files they were discovered from, so the ID
// identifies the environment itself rather than its on-disk layout.
func EnvironmentID(c *ComposedEnvironment) string {
	h := xxhash.New()

	for _, layer := range c.Layers {
		_, _ = h.WriteString(layer)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	for _, op := range c.Environment {
		hashEnvOp(h, op)
	}
	_, _ = h.Write([]byte{0})

	for _, bind := range c.Contents {
		_, _ = h.WriteString(bind.Bind)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(bind.Dest)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(strconv.FormatBool(bind.Readonly))
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	for _, pkg := range c.Packages {
		_, _ = h.WriteString(pkg)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	if opts := c.PackageOptions; opts != nil {
		_, _ = h.WriteString(strconv.FormatBool(opts.BinaryOnly))
		_, _ = h.Write([]byte{0})
		for _, repo := range opts.Repositories {
			_, _ = h.WriteString(repo)
			_, _ = h.Write([]byte{0})
		}
		_, _ = h.WriteString(opts.Solver)
		_, _ = h.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func hashEnvOp(h *xxhash.Digest, op EnvOp) {
	switch v := op.(type) {
	case SetEnv:
		_, _ = h.WriteString("set\x00" + v.Name + "\x00" + v.Value)
	case PrependEnv:
		_, _ = h.WriteString("prepend\x00" + v.Name + "\x00" + v.Value + "\x00" + v.Separator)
	case AppendEnv:
		_, _ = h.WriteString("append\x00" + v.Name + "\x00" + v.Value + "\x00" + v.Separator)
	case CommentEnv:
		_, _ = h.WriteString("comment\x00" + v.Text)
	case PriorityEnv:
		_, _ = h.WriteString("priority\x00" + strconv.Itoa(v.Value))
	}
	_, _ = h.Write([]byte{0})
}
