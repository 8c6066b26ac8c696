package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/zoobzio/timelinez"
	"github.com/zoobzio/timelinez/export"
	"github.com/zoobzio/timelinez/layout"
	"github.com/zoobzio/timelinez/svg"
)

// draw writes spans as the configured kind of drawing.
func draw(w io.Writer, spans map[uint64]timelinez.Span, cfg SVGConfig) error {
	opts := svg.Options{Width: cfg.Width, Height: cfg.Height}
	if cfg.Kind == "gantt" {
		return svg.Gantt(w, spans, opts)
	}
	g, err := layout.Build(spans, cfg.Layout())
	if err != nil {
		return err
	}
	return svg.Graph(w, g, opts)
}

// writeFile creates path and hands a buffered writer to fn.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// readDump loads spans from an export file, picking the format by extension.
func readDump(path string) (map[uint64]timelinez.Span, error) {
	format, err := export.FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return export.Decode(bufio.NewReader(f), format)
}

func writeDump(path string, spans map[uint64]timelinez.Span) error {
	format, err := export.FormatFor(path)
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return export.Encode(w, format, spans)
	})
}
