package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/strata/internal/app"
	"go.trai.ch/strata/internal/ui/style"
)

func (c *CLI) newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Freeze the composed environment into a lock file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			update, _ := cmd.Flags().GetBool("update")

			snapshot, path, err := c.app.Lock(cmd.Context(), app.LockOptions{
				DiscoverOptions: discoverOptions(cmd),
				Update:          update,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s (%d source(s), %d layer(s))\n",
				style.Check, path, len(snapshot.Sources), len(snapshot.Layers))
			return nil
		},
	}
	addDiscoverFlags(cmd)
	cmd.Flags().BoolP("update", "u", false, "Replace an existing lock file")
	return cmd
}
