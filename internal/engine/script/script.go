// Package script renders composed environment operations to a POSIX
// startup script.
package script

import (
	"fmt"
	"strings"

	"go.trai.ch/strata/internal/core/domain"
)

// Name returns the startup script file name for the given operations. The
// two-digit prefix orders scripts by their declared priority.
func Name(ops []domain.EnvOp) string {
	return fmt.Sprintf("%02d_strata.sh", domain.ScriptPriority(ops))
}

// Render generates the startup script body for the given operations in
// declaration order. Set assigns, prepend puts the new value before the
// existing one, append after it, and comments become # lines. Priority
// operations only affect the script name, not its body.
func Render(ops []domain.EnvOp) string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env sh\n")
	b.WriteString("# Generated by strata. Do not edit.\n")

	for _, op := range ops {
		switch v := op.(type) {
		case domain.SetEnv:
			fmt.Fprintf(&b, "export %s=\"%s\"\n", v.Name, escape(v.Value))
		case domain.PrependEnv:
			sep := separatorOf(v.Separator)
			fmt.Fprintf(&b, "export %s=\"%s%s${%s}\"\n", v.Name, escape(v.Value), sep, v.Name)
		case domain.AppendEnv:
			sep := separatorOf(v.Separator)
			fmt.Fprintf(&b, "export %s=\"${%s}%s%s\"\n", v.Name, v.Name, sep, escape(v.Value))
		case domain.CommentEnv:
			fmt.Fprintf(&b, "# %s\n", v.Text)
		case domain.PriorityEnv:
			// Consumed by Name.
		}
	}

	return b.String()
}

func separatorOf(sep string) string {
	if sep == "" {
		return domain.DefaultEnvSeparator
	}
	return sep
}

// escape makes a value safe inside a double-quoted shell string.
func escape(value string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"`", "\\`",
	)
	return r.Replace(value)
}
