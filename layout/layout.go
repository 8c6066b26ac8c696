// Package layout turns a reconstructed span set into a sized and
// positioned diagram.
//
// Spans named timelinez.ParallelName compose their children side by
// side; every other span composes its children in sequence, top to
// bottom, with synthetic gap tasks standing for the time the span spent
// outside of any child.
package layout

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/zoobzio/timelinez"
)

// Default output size, in output units.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// IdleLabel labels the idle tasks of IdleLanes.
const IdleLabel = "idle"

var (
	// ErrRootCount reports a span set without exactly one root span.
	ErrRootCount = errors.New("expected exactly one root span")
	// ErrRootName reports a root span not named timelinez.RootName.
	ErrRootName = errors.New("root span misnamed")
	// ErrUnknownParent reports a span whose parent is not in the set.
	ErrUnknownParent = errors.New("unknown parent span")
	// ErrDegenerate reports a diagram that cannot be scaled, e.g. a root
	// span of zero duration.
	ErrDegenerate = errors.New("degenerate layout")
)

// Options configures the output size.
type Options struct {
	Width  float64
	Height float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Task is a leaf of the diagram: a time range spent on one thread.
type Task struct {
	Label  string
	Start  uint64
	End    uint64
	Thread int
}

// Duration returns End - Start.
func (t Task) Duration() uint64 {
	return t.End - t.Start
}

// Node is either an internal node composing Children, in parallel or in
// sequence, or a leaf holding a Task.
//
// Width and Height are the raw size, in nanoseconds by depth units.
// ScaledWidth, ScaledHeight, X and Y are in output units.
//
//nolint:govet // Field order optimized for readability
type Node struct {
	Children []*Node
	Task     *Task
	Parallel bool

	Width  uint64
	Height uint64

	ScaledWidth  float64
	ScaledHeight float64
	X            float64
	Y            float64
}

// IsLeaf reports whether n holds a Task.
func (n *Node) IsLeaf() bool {
	return n.Task != nil
}

// Graph is a positioned diagram of one span set.
//
//nolint:govet // Field order optimized for readability
type Graph struct {
	Root  *Node
	Spans map[uint64]timelinez.Span

	// Start and End bound the recorded time range.
	Start uint64
	End   uint64
	// Threads is one more than the highest execution thread ordinal.
	Threads int

	// XScale and YScale convert raw sizes into output units by division.
	XScale float64
	YScale float64
	Width  float64
	Height float64
}

// Build lays out spans, which must form a single tree rooted at a span
// named timelinez.RootName.
func Build(spans map[uint64]timelinez.Span, opts Options) (*Graph, error) {
	opts = opts.withDefaults()

	root, children, err := forest(spans)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Spans:  spans,
		Start:  math.MaxUint64,
		Width:  opts.Width,
		Height: opts.Height,
	}
	maxThread := 0
	for _, s := range spans {
		g.Start = min(g.Start, s.Start)
		g.End = max(g.End, s.End)
		maxThread = max(maxThread, s.ExecutionThread)
	}
	g.Threads = maxThread + 1

	g.Root = build(root, children, spans)
	g.Root.size()

	g.XScale = float64(g.Root.Width) / opts.Width
	g.YScale = float64(g.Root.Height+uint64(maxThread)+1) / opts.Height
	if g.XScale == 0 || g.YScale == 0 {
		return nil, fmt.Errorf("%w: root size %dx%d", ErrDegenerate, g.Root.Width, g.Root.Height)
	}

	g.Root.X, g.Root.Y = 0, 0
	g.Root.place(g.XScale, g.YScale)
	return g, nil
}

// forest links every span to its parent and returns the root id and the
// children lists, sorted by (name, start).
func forest(spans map[uint64]timelinez.Span) (uint64, map[uint64][]uint64, error) {
	children := make(map[uint64][]uint64)
	var roots []uint64
	for id, s := range spans {
		if !s.HasParent() {
			roots = append(roots, id)
			continue
		}
		if _, ok := spans[s.Parent]; !ok {
			return 0, nil, fmt.Errorf("%w: span %d (%s) has parent %d", ErrUnknownParent, id, s.Name, s.Parent)
		}
		children[s.Parent] = append(children[s.Parent], id)
	}

	if len(roots) != 1 {
		slices.Sort(roots)
		return 0, nil, fmt.Errorf("%w: found %d %v", ErrRootCount, len(roots), roots)
	}
	root := roots[0]
	if name := spans[root].Name; name != timelinez.RootName {
		return 0, nil, fmt.Errorf("%w: %q, expected %q", ErrRootName, name, timelinez.RootName)
	}

	for _, ids := range children {
		slices.SortFunc(ids, func(a, b uint64) int {
			sa, sb := spans[a], spans[b]
			return cmp.Or(
				cmp.Compare(sa.Name, sb.Name),
				cmp.Compare(sa.Start, sb.Start),
				cmp.Compare(a, b),
			)
		})
	}
	return root, children, nil
}

// build creates the node of span id and, recursively, of its children.
func build(id uint64, children map[uint64][]uint64, spans map[uint64]timelinez.Span) *Node {
	span := spans[id]
	kids := children[id]

	if span.Name == timelinez.ParallelName {
		node := &Node{Parallel: true, Children: make([]*Node, 0, len(kids))}
		for _, kid := range kids {
			node.Children = append(node.Children, build(kid, children, spans))
		}
		return node
	}

	// In sequence, children are laid out in time order.
	ordered := slices.Clone(kids)
	slices.SortStableFunc(ordered, func(a, b uint64) int {
		return cmp.Compare(spans[a].Start, spans[b].Start)
	})

	node := &Node{Children: make([]*Node, 0, 2*len(ordered)+1)}
	cursor := span.Start
	for _, kid := range ordered {
		child := spans[kid]
		node.Children = append(node.Children, gap(span, cursor, child.Start), build(kid, children, spans))
		cursor = max(cursor, child.End)
	}
	node.Children = append(node.Children, gap(span, cursor, span.End))
	return node
}

// gap is the synthetic task covering [start, end) of parent's own work.
// Overlapping neighbours yield an empty gap.
func gap(parent timelinez.Span, start, end uint64) *Node {
	end = max(start, end)
	return &Node{Task: &Task{
		Label:  parent.Name,
		Start:  start,
		End:    end,
		Thread: parent.ExecutionThread,
	}}
}

// size computes raw sizes bottom-up.
func (n *Node) size() {
	if n.IsLeaf() {
		n.Width, n.Height = n.Task.Duration(), 1
		return
	}
	n.Width, n.Height = 0, 0
	for _, child := range n.Children {
		child.size()
		if n.Parallel {
			n.Width += child.Width
			n.Height = max(n.Height, child.Height)
		} else {
			n.Width = max(n.Width, child.Width)
			n.Height += child.Height
		}
	}
}

// place scales n and positions its children, top-down. n.X and n.Y must
// already be set.
func (n *Node) place(xScale, yScale float64) {
	n.ScaledWidth = float64(n.Width) / xScale
	n.ScaledHeight = float64(n.Height) / yScale

	offset := 0.0
	for _, child := range n.Children {
		child.ScaledWidth = float64(child.Width) / xScale
		child.ScaledHeight = float64(child.Height) / yScale
		if n.Parallel {
			child.X = n.X + offset
			child.Y = n.Y + (n.ScaledHeight-child.ScaledHeight)/2
			offset += child.ScaledWidth
		} else {
			child.X = n.X + (n.ScaledWidth-child.ScaledWidth)/2
			child.Y = n.Y + offset
			offset += child.ScaledHeight
		}
		child.place(xScale, yScale)
	}
}

// Tasks yields every leaf task of the diagram, depth first.
func (g *Graph) Tasks() iter.Seq[*Node] {
	return g.Root.Leaves()
}

// Leaves yields every leaf under n, in child order.
func (n *Node) Leaves() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := []*Node{n}
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if next.IsLeaf() {
				if !yield(next) {
					return
				}
				continue
			}
			for i := len(next.Children) - 1; i >= 0; i-- {
				stack = append(stack, next.Children[i])
			}
		}
	}
}
