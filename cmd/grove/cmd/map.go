package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

func newMapCmd(o *options) *cobra.Command {
	var vf viewFlags
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the grid cell of every event",
		Long: `Print the grid cell every event is planted on for the chosen granularity.

Example:
  grove map -e events.json -g week`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			g, _, err := vf.parse(cfg.Zone())
			if err != nil {
				return err
			}
			events, err := o.events(cmd.InOrStdin())
			if err != nil {
				return err
			}
			cells, err := grove.MapEvents(events, g, cfg.MapOptions())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tROW\tCOL\tEMOTION\tTIMESTAMP")
			for i, c := range cells {
				ev := events[i]
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", i, c.Row, c.Col, ev.Emotion, ev.RawTimestamp)
			}
			return w.Flush()
		},
	}
	vf.register(cmd)
	return cmd
}
