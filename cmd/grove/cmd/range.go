package cmd

import (
	"fmt"
	"time"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

func newRangeCmd(o *options) *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the timestamp window a view covers",
		Long: `Print the first and last instant of the day, week or month containing
the reference date. Fetch events for this window before calling view.

Example:
  grove range -g month -d 2024-03-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			g, ref, err := vf.parse(cfg.Zone())
			if err != nil {
				return err
			}
			start, end := grove.DateRange(ref, g, cfg.MapOptions())
			fmt.Fprintln(cmd.OutOrStdout(), start.Format(time.RFC3339Nano))
			fmt.Fprintln(cmd.OutOrStdout(), end.Format(time.RFC3339Nano))
			return nil
		},
	}
	vf.register(cmd)
	return cmd
}
