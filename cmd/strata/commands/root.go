// Package commands implements the CLI commands for the strata tool.
package commands

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/build"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/core/ports"
)

// CLI represents the command line interface for strata.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context, opts app.DiscoverOptions) (*app.Environment, error)
	Lock(ctx context.Context, opts app.LockOptions) (*domain.LockFile, string, error)
	Check(ctx context.Context, opts app.DiscoverOptions) ([]domain.Change, error)
	Init(ctx context.Context, dir string, force bool) (string, error)
}

// New creates a new CLI instance with the given app.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "strata",
		Short:         "Layered runtime environments from declaration files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Log in JSON format")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonMode, _ := cmd.Flags().GetBool("json")

		if v, ok := c.logger.(interface{ SetVerbose(bool) }); ok {
			v.SetVerbose(verbose)
		}
		if j, ok := c.logger.(interface{ SetJSON(bool) }); ok {
			j.SetJSON(jsonMode)
		}
	}

	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// addDiscoverFlags registers the shared discovery flags on a command.
func addDiscoverFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Declaration file or directory to start from")
	cmd.Flags().Bool("inherit", false, "Walk parent directories regardless of per-file settings")
	cmd.Flags().BoolP("no-inherit", "n", false, "Never walk parent directories")
	cmd.Flags().StringArrayP("include", "i", nil, "Additional declaration file to merge first (repeatable)")
}

// discoverOptions collects the shared discovery flags and their environment
// variable equivalents.
func discoverOptions(cmd *cobra.Command) app.DiscoverOptions {
	file, _ := cmd.Flags().GetString("file")
	inherit, _ := cmd.Flags().GetBool("inherit")
	noInherit, _ := cmd.Flags().GetBool("no-inherit")
	includes, _ := cmd.Flags().GetStringArray("include")

	opts := app.DiscoverOptions{
		StartPath:    file,
		ForceInherit: inherit,
		NoInherit:    noInherit,
		Includes:     includes,
	}

	if truthy(os.Getenv(domain.InheritEnvVar)) {
		opts.ForceInherit = true
	}
	if truthy(os.Getenv(domain.NoInheritEnvVar)) {
		opts.NoInherit = true
	}
	if v := os.Getenv(domain.IncludeEnvVar); v != "" {
		for _, p := range strings.Split(v, ":") {
			if p != "" {
				opts.EnvIncludes = append(opts.EnvIncludes, p)
			}
		}
	}

	return opts
}

// truthy reports whether an environment variable value means "enabled".
func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
