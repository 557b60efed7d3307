package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/strata/internal/ui/style"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the live environment against the lock file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changes, err := c.app.Check(cmd.Context(), discoverOptions(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(changes) == 0 {
				fmt.Fprintf(out, "%s environment matches lock file\n", style.Check)
				return nil
			}

			for _, change := range changes {
				fmt.Fprintln(out, changeString(change))
			}
			return domain.ErrDriftDetected
		},
	}
	addDiscoverFlags(cmd)
	return cmd
}

// changeString renders one detected difference for display.
func changeString(change domain.Change) string {
	switch change.Kind {
	case domain.SourceFileChanged, domain.LayerDigestChanged:
		return fmt.Sprintf("%s %s %s (%s -> %s)",
			style.Cross, change.Kind, change.Reference, change.Expected, change.Actual)
	case domain.SourceFileRemoved, domain.LayerRemoved:
		return fmt.Sprintf("%s %s %s (was %s)",
			style.Cross, change.Kind, change.Reference, change.Expected)
	case domain.LayerAdded:
		return fmt.Sprintf("%s %s %s", style.Warning, change.Kind, change.Reference)
	default:
		return fmt.Sprintf("%s %s %s", style.Cross, change.Kind, change.Reference)
	}
}
