package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/zoobzio/timelinez"
)

func newDemoCmd(a *app) *cobra.Command {
	var out, dump string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Record a synthetic parallel workload and draw it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			unit, err := a.cfg.Demo.unit()
			if err != nil {
				return err
			}
			w := workload{unit: unit, workers: a.cfg.Demo.Workers, depth: a.cfg.Demo.Depth}

			rec := timelinez.New().WithLogger(a.log)
			var runErr error
			c, err := rec.Capture(func(p *timelinez.Producer) {
				runErr = w.run(cmd.Context(), p)
			})
			if runErr != nil {
				return runErr
			}
			if err != nil {
				return err
			}
			a.log.Info("recorded workload", "spans", len(c.Spans), "threads", c.Threads)

			if dump != "" {
				if err := writeDump(dump, c.Spans); err != nil {
					return err
				}
				a.log.V(1).Info("wrote dump", "path", dump)
			}
			if err := writeFile(out, func(w io.Writer) error {
				return draw(w, c.Spans, a.cfg.SVG)
			}); err != nil {
				return err
			}
			a.log.Info("wrote drawing", "path", out, "kind", a.cfg.SVG.Kind)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "timeline.svg", "SVG output path")
	cmd.Flags().StringVar(&dump, "dump", "", "also export the spans (.yaml or .msgpack)")
	return cmd
}
