package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/phanxgames/grove"
	"github.com/spf13/cobra"
)

func newViewCmd(o *options) *cobra.Command {
	var (
		vf         viewFlags
		night      bool
		scriptFile string
		width      int
		height     int
		showFPS    bool
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open a window showing the forest",
		Long: `Open a window showing the forest for the reference date.

Drag to orbit, scroll to zoom, hover a tree to see its subject and click
an empty tile to print its date.

Example:
  grove view -e events.json -g month -d 2024-03-01 --night`,
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
			catalog, err := o.catalog()
			if err != nil {
				return err
			}
			events, err := o.events(cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cb := grove.Callbacks{
				OnEventSelected: func(sel grove.EventSelection) {
					fmt.Fprintf(out, "selected #%d %s %q\n", sel.Index, sel.Event.Emotion, sel.Event.Subject)
				},
				OnDateSelected: func(date time.Time) {
					fmt.Fprintf(out, "date %s\n", date.Format(dateLayout))
				},
			}
			engine, err := grove.NewEngine(cfg, catalog, grove.ProceduralLoader{},
				grove.WithLogger(o.logger()), grove.WithCallbacks(cb))
			if err != nil {
				return err
			}
			if scriptFile != "" {
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				script, err := grove.LoadScript(data)
				if err != nil {
					return err
				}
				engine.SetScript(script)
			}
			if err := engine.Preload(context.Background()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			engine.SetInputs(grove.Inputs{
				Events:      events,
				Granularity: g,
				Night:       night,
				Reference:   ref,
			})
			return grove.Run(engine, grove.RunConfig{
				Title:   fmt.Sprintf("grove - %s of %s", g, ref.Format(dateLayout)),
				Width:   width,
				Height:  height,
				ShowFPS: showFPS,
			})
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVar(&night, "night", false, "use the night preset")
	cmd.Flags().StringVar(&scriptFile, "script", "", "JSON script of pointer actions and screenshots")
	cmd.Flags().IntVar(&width, "width", 960, "window width")
	cmd.Flags().IntVar(&height, "height", 640, "window height")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show FPS and TPS")
	return cmd
}
