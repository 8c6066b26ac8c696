package main

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zoobzio/timelinez"
	"github.com/zoobzio/timelinez/svg"
)

type threadStat struct {
	Thread     int
	Spans      int
	Start, End uint64
}

type nameStat struct {
	Name  string
	Count int
	Total uint64
	Max   uint64
}

// summarize groups spans by execution thread and by name.
// Names are ordered by total time, largest first.
func summarize(spans map[uint64]timelinez.Span) ([]threadStat, []nameStat) {
	threads := make(map[int]*threadStat)
	names := make(map[string]*nameStat)

	for _, id := range slices.Sorted(maps.Keys(spans)) {
		s := spans[id]
		t, ok := threads[s.ExecutionThread]
		if !ok {
			t = &threadStat{Thread: s.ExecutionThread, Start: s.Start, End: s.End}
			threads[s.ExecutionThread] = t
		}
		t.Spans++
		t.Start = min(t.Start, s.Start)
		t.End = max(t.End, s.End)

		n, ok := names[s.Name]
		if !ok {
			n = &nameStat{Name: s.Name}
			names[s.Name] = n
		}
		n.Count++
		n.Total += s.Duration()
		n.Max = max(n.Max, s.Duration())
	}

	ts := make([]threadStat, 0, len(threads))
	for _, t := range threads {
		ts = append(ts, *t)
	}
	slices.SortFunc(ts, func(a, b threadStat) int { return cmp.Compare(a.Thread, b.Thread) })

	ns := make([]nameStat, 0, len(names))
	for _, n := range names {
		ns = append(ns, *n)
	}
	slices.SortFunc(ns, func(a, b nameStat) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return ts, ns
}

func printStats(w io.Writer, threads []threadStat, names []nameStat) {
	head := color.New(color.Bold, color.FgCyan)
	hot := color.New(color.FgRed)

	head.Fprintln(w, "threads")
	for _, t := range threads {
		fmt.Fprintf(w, "  %-4d %6d spans  %s .. %s\n",
			t.Thread, t.Spans, svg.Duration(t.Start), svg.Duration(t.End))
	}

	head.Fprintln(w, "spans")
	for i, n := range names {
		line := fmt.Sprintf("  %-24s %6d  total %-10s max %s",
			n.Name, n.Count, svg.Duration(n.Total), svg.Duration(n.Max))
		if i == 0 {
			hot.Fprintln(w, line)
			continue
		}
		fmt.Fprintln(w, line)
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "stats <dump>",
		Short: "Summarize an exported span dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spans, err := readDump(args[0])
			if err != nil {
				return err
			}
			if noColor {
				color.NoColor = true
			}
			threads, names := summarize(spans)
			printStats(cmd.OutOrStdout(), threads, names)
			a.log.V(1).Info("summarized dump", "path", args[0], "spans", len(spans))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
