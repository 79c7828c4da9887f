package cmd

import (
	"fmt"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

func newSummaryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize events by emotion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := o.events(cmd.InOrStdin())
			if err != nil {
				return err
			}
			s := grove.Summarize(events)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total: %d\n", s.Total)
			fmt.Fprintf(out, "Predominant: %s (%d%%)\n", s.Predominant, s.Intensity)
			for _, e := range grove.Emotions {
				n := s.Counts[e]
				if n == 0 {
					continue
				}
				if ex, ok := s.Examples[e]; ok {
					fmt.Fprintf(out, "  %-13s %3d  %q\n", e, n, ex)
				} else {
					fmt.Fprintf(out, "  %-13s %3d\n", e, n)
				}
			}
			return nil
		},
	}
}
