package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/engine/script"
	"go.trai.ch/strata/internal/ui/style"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the composed environment for the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.app.Resolve(cmd.Context(), discoverOptions(cmd))
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			filesOnly, _ := cmd.Flags().GetBool("files")

			out := cmd.OutOrStdout()
			if filesOnly {
				for _, f := range env.Files {
					fmt.Fprintln(out, f)
				}
				return nil
			}

			switch format {
			case "table":
				renderTable(out, env)
				return nil
			case "yaml":
				return renderMarshaled(out, env, yaml.Marshal)
			case "json":
				return renderMarshaled(out, env, func(v any) ([]byte, error) {
					return json.MarshalIndent(v, "", "  ")
				})
			case "script":
				fmt.Fprintf(out, "# %s\n", script.Name(env.Composed.Environment))
				fmt.Fprint(out, script.Render(env.Composed.Environment))
				return nil
			default:
				return zerr.With(domain.ErrValidationFailed, "format", format)
			}
		},
	}
	addDiscoverFlags(cmd)
	cmd.Flags().String("format", "table", "Output format: table, yaml, json, or script")
	cmd.Flags().Bool("files", false, "Only list the contributing declaration files")
	return cmd
}

// showView is the serializable shape used by the yaml and json formats.
type showView struct {
	ID          string   `yaml:"id" json:"id"`
	Files       []string `yaml:"files" json:"files"`
	Layers      []string `yaml:"layers,omitempty" json:"layers,omitempty"`
	Environment []string `yaml:"environment,omitempty" json:"environment,omitempty"`
	Packages    []string `yaml:"packages,omitempty" json:"packages,omitempty"`
}

func renderMarshaled(out io.Writer, env *app.Environment, marshal func(any) ([]byte, error)) error {
	view := showView{
		ID:       env.ID,
		Files:    env.Files,
		Layers:   env.Composed.Layers,
		Packages: env.Composed.Packages,
	}
	for _, op := range env.Composed.Environment {
		view.Environment = append(view.Environment, opString(op))
	}

	raw, err := marshal(view)
	if err != nil {
		return zerr.Wrap(err, "failed to render environment")
	}
	fmt.Fprintln(out, string(raw))
	return nil
}

func renderTable(out io.Writer, env *app.Environment) {
	fmt.Fprintln(out, style.Header.Render("environment"), style.Muted.Render(env.ID))

	fmt.Fprintln(out, style.Header.Render("files"))
	for _, f := range env.Files {
		fmt.Fprintf(out, "  %s %s\n", style.Dot, f)
	}

	if env.Composed.HasLayers() {
		fmt.Fprintln(out, style.Header.Render("layers"))
		for _, l := range env.Composed.Layers {
			fmt.Fprintf(out, "  %s %s\n", style.Arrow, l)
		}
	}

	if len(env.Composed.Environment) > 0 {
		fmt.Fprintln(out, style.Header.Render("environment operations"))
		for _, op := range env.Composed.Environment {
			fmt.Fprintf(out, "  %s\n", opString(op))
		}
	}

	if len(env.Composed.Packages) > 0 {
		fmt.Fprintln(out, style.Header.Render("packages"))
		for _, p := range env.Composed.Packages {
			fmt.Fprintf(out, "  %s %s\n", style.Dot, p)
		}
	}
}

// opString renders a single environment operation for display.
func opString(op domain.EnvOp) string {
	switch v := op.(type) {
	case domain.SetEnv:
		return fmt.Sprintf("set %s=%s", v.Name, v.Value)
	case domain.PrependEnv:
		return fmt.Sprintf("prepend %s with %s", v.Name, v.Value)
	case domain.AppendEnv:
		return fmt.Sprintf("append %s with %s", v.Name, v.Value)
	case domain.CommentEnv:
		return "# " + v.Text
	case domain.PriorityEnv:
		return fmt.Sprintf("priority %d", v.Value)
	default:
		return fmt.Sprintf("%v", op)
	}
}
