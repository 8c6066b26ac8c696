package svg

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/zoobzio/timelinez"
)

// Gantt writes spans as a Gantt chart: one row per execution thread, one
// bar per span, colored by span name. Parents are drawn before their
// children so nested bars stay visible.
func Gantt(w io.Writer, spans map[uint64]timelinez.Span, opts Options) error {
	opts = opts.withDefaults()

	ids := make([]uint64, 0, len(spans))
	for id := range spans {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	start, end := uint64(math.MaxUint64), uint64(0)
	threads := 0
	colors := make(map[string]string)
	for _, id := range ids {
		s := spans[id]
		start = min(start, s.Start)
		end = max(end, s.End)
		threads = max(threads, s.ExecutionThread+1)
		if _, ok := colors[s.Name]; !ok {
			colors[s.Name] = Colors[len(colors)%len(Colors)]
		}
	}
	if len(ids) == 0 || end <= start {
		return fmt.Errorf("%w: %d spans", ErrEmptyRange, len(ids))
	}

	p := &printer{w: w}
	p.printf("<svg version='1.1' viewBox='0 0 %s %s' xmlns='http://www.w3.org/2000/svg'>\n", num(opts.Width), num(opts.Height))

	span := float64(end - start)
	row := opts.Height / float64(threads)
	seen := make(map[uint64]bool, len(ids))
	var bar func(s timelinez.Span)
	bar = func(s timelinez.Span) {
		if seen[s.ID] {
			return
		}
		seen[s.ID] = true
		if parent, ok := spans[s.Parent]; ok && s.HasParent() {
			bar(parent)
		}
		p.printf("<rect class='task%d' id='%d' width='%s' height='%s' x='%s' y='%s' fill='%s'/>\n",
			opts.ID, s.ID,
			num(float64(s.Duration())*opts.Width/span),
			num(row),
			num(float64(s.Start-start)*opts.Width/span),
			num(row*float64(s.ExecutionThread)),
			colors[s.Name])
	}
	for _, id := range ids {
		bar(spans[id])
	}
	for _, id := range ids {
		s := spans[id]
		tooltip(p, opts.Width, opts.Height, opts.ID, strconv.FormatUint(id, 10), s.Start, s.End, s.Name)
	}
	script(p, opts.ID)
	p.printf("</svg>\n")
	return p.err
}
