package domain

// EnvOp is one environment variable operation from a declaration's
// `environment:` list. It is a closed union: the only implementations are
// SetEnv, PrependEnv, AppendEnv, CommentEnv, and PriorityEnv. Every consumer
// switches exhaustively over these five types so that adding an operation is
// a compile-time-checked change.
type EnvOp interface {
	envOp()
}

// SetEnv assigns a variable to a literal value.
type SetEnv struct {
	// Name is the variable name.
	Name string
	// Value is the literal value to assign.
	Value string
}

// PrependEnv prepends a value to a variable, joined by Separator.
type PrependEnv struct {
	Name  string
	Value string
	// Separator joins the new value and the existing one. Empty means ":".
	Separator string
}

// AppendEnv appends a value to a variable, joined by Separator.
type AppendEnv struct {
	Name  string
	Value string
	// Separator joins the existing value and the new one. Empty means ":".
	Separator string
}

// CommentEnv is a non-executable annotation carried into generated scripts.
type CommentEnv struct {
	Text string
}

// PriorityEnv selects the ordering prefix of the generated startup script.
// It is a non-executable annotation.
type PriorityEnv struct {
	Value int
}

func (SetEnv) envOp()      {}
func (PrependEnv) envOp()  {}
func (AppendEnv) envOp()   {}
func (CommentEnv) envOp()  {}
func (PriorityEnv) envOp() {}

// DefaultEnvSeparator is used when a prepend/append operation does not name
// its own separator.
const DefaultEnvSeparator = ":"

// DefaultScriptPriority is the startup script priority used when no
// PriorityEnv operation is present.
const DefaultScriptPriority = 50

// ScriptPriority returns the value of the last PriorityEnv in ops, or
// DefaultScriptPriority when none is present.
func ScriptPriority(ops []EnvOp) int {
	priority := DefaultScriptPriority
	for _, op := range ops {
		if p, ok := op.(PriorityEnv); ok {
			priority = p.Value
		}
	}
	return priority
}
