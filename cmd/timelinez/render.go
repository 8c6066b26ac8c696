package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var out, kind string

	cmd := &cobra.Command{
		Use:   "render <dump>",
		Short: "Draw an exported span dump as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			spans, err := readDump(args[0])
			if err != nil {
				return err
			}
			cfg := a.cfg.SVG
			if kind != "" {
				cfg.Kind = kind
				c := a.cfg
				c.SVG = cfg
				if err := c.Validate(); err != nil {
					return err
				}
			}
			if err := writeFile(out, func(w io.Writer) error {
				return draw(w, spans, cfg)
			}); err != nil {
				return err
			}
			a.log.Info("wrote drawing", "path", out, "kind", cfg.Kind, "spans", len(spans))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "timeline.svg", "SVG output path")
	cmd.Flags().StringVar(&kind, "kind", "", "drawing kind (graph|gantt), overrides the configuration")
	return cmd
}
