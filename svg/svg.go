// Package svg draws layout graphs and span sets as SVG documents with
// hover tooltips.
package svg

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/zoobzio/timelinez/layout"
)

// Colors cycles over threads (Graph) or span names (Gantt).
var Colors = [...]string{"red", "blue", "green", "yellow", "purple", "brown", "orange"}

// animation is the wall-clock length, in milliseconds, a whole run is
// stretched to when tasks are animated.
const animation = 30_000.0

// ErrEmptyRange reports a span set covering no time at all.
var ErrEmptyRange = errors.New("empty time range")

// Options configures a drawing.
type Options struct {
	// Width and Height size Gantt output; Graph uses the graph's own size.
	Width  float64
	Height float64
	// ID suffixes element ids and classes so several drawings can share a
	// page. Zero picks a random value.
	ID uint64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = layout.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = layout.DefaultHeight
	}
	if o.ID == 0 {
		o.ID = rand.Uint64()
	}
	return o
}

// printer writes formatted output and remembers the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// num formats f without exponent and without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// point is an edge endpoint.
type point struct{ x, y float64 }

// drawing carries the state of one Graph call.
type drawing struct {
	*printer
	g        *layout.Graph
	id       uint64
	dilation float64
	tasks    int
}

// Graph writes g as an SVG document: edges between consecutive tasks,
// one animated bar per task, one idle lane per thread and a hover
// tooltip for every bar.
func Graph(w io.Writer, g *layout.Graph, opts Options) error {
	opts = opts.withDefaults()
	if g.End <= g.Start {
		return fmt.Errorf("%w: [%d, %d)", ErrEmptyRange, g.Start, g.End)
	}

	d := &drawing{
		printer:  &printer{w: w},
		g:        g,
		id:       opts.ID,
		dilation: animation / float64(g.End-g.Start),
	}
	d.printf("<svg version='1.1' viewBox='0 0 %s %s' xmlns='http://www.w3.org/2000/svg'>\n", num(g.Width), num(g.Height))
	d.edges(g.Root, nil, nil)
	for leaf := range g.Tasks() {
		d.task(*leaf.Task, leaf.X, leaf.Y, leaf.ScaledWidth, leaf.ScaledHeight)
	}
	for _, idle := range g.IdleLanes() {
		d.task(idle.Task, idle.X, idle.Y, idle.Width, idle.Height)
	}
	script(d.printer, d.id)
	d.printf("</svg>\n")
	return d.err
}

// task writes a background bar, an animated bar colored by thread and
// the bar's tooltip.
func (d *drawing) task(t layout.Task, x, y, width, height float64) {
	top := num(y + height*0.25)
	half := num(height * 0.5)
	d.printf("<rect width='%s' height='%s' x='%s' y='%s' fill='black'/>\n", num(width), half, num(x), top)
	d.printf("<rect class=\"task%d\" id=\"%d\" width='0' height='%s' x='%s' y='%s' fill='%s'>\n",
		d.id, d.tasks, half, num(x), top, Colors[t.Thread%len(Colors)])
	d.printf("<animate attributeType=\"XML\" attributeName=\"width\" from=\"0\" to=\"%s\" begin=\"%sms\" dur=\"%sms\" fill=\"freeze\"/>\n",
		num(width), num(float64(t.Start)*d.dilation), num(float64(t.Duration())*d.dilation))
	d.printf("</rect>\n")
	tooltip(d.printer, d.g.Width, d.g.Height, d.id, strconv.Itoa(d.tasks), t.Start, t.End, t.Label)
	d.tasks++
}

// edges links entry to the first child of n and its last child to exit,
// then recurses into inner children.
func (d *drawing) edges(n *layout.Node, entry, exit []point) {
	if n.IsLeaf() || len(n.Children) == 0 {
		return
	}
	if n.Parallel {
		for _, child := range n.Children {
			d.edges(child, entry, exit)
		}
		return
	}

	first, last := n.Children[0], n.Children[len(n.Children)-1]
	d.link(entry, entryPoints(first))
	d.link(exitPoints(last), exit)
	for i := 1; i+1 < len(n.Children); i++ {
		d.edges(n.Children[i], exitPoints(n.Children[i-1]), entryPoints(n.Children[i+1]))
	}
}

// link draws an edge from every point of from to every point of to.
func (d *drawing) link(from, to []point) {
	for _, a := range from {
		for _, b := range to {
			d.printf("<line x1='%s' y1='%s' x2='%s' y2='%s' stroke='black' stroke-width='3'/>\n",
				num(a.x), num(a.y), num(b.x), num(b.y))
		}
	}
}

func entryPoints(n *layout.Node) []point {
	switch {
	case n.IsLeaf():
		return []point{{n.X + n.ScaledWidth/2, n.Y + n.ScaledHeight*0.25}}
	case n.Parallel:
		var points []point
		for _, child := range n.Children {
			points = append(points, entryPoints(child)...)
		}
		return points
	case len(n.Children) == 0:
		return nil
	default:
		return entryPoints(n.Children[0])
	}
}

func exitPoints(n *layout.Node) []point {
	switch {
	case n.IsLeaf():
		return []point{{n.X + n.ScaledWidth/2, n.Y + n.ScaledHeight*0.75}}
	case n.Parallel:
		var points []point
		for _, child := range n.Children {
			points = append(points, exitPoints(child)...)
		}
		return points
	case len(n.Children) == 0:
		return nil
	default:
		return exitPoints(n.Children[len(n.Children)-1])
	}
}

// tooltip writes the hidden group shown when hovering element elemID.
func tooltip(p *printer, width, height float64, id uint64, elemID string, start, end uint64, label string) {
	lines := []string{
		fmt.Sprintf("start %d end %d", start, end),
		"duration " + Duration(end-start),
		"label " + label,
	}
	boxHeight := float64(len(lines) * 20)
	x := width - 400
	y := height - boxHeight - 40

	p.printf("<g id=\"tip_%d_%s\">\n", id, elemID)
	p.printf("<rect x=\"%s\" y=\"%s\" width=\"300\" height=\"%s\" fill=\"white\" stroke=\"black\"/>\n",
		num(x), num(y), num(boxHeight+10))
	for _, line := range lines {
		y += 20
		p.printf("<text x=\"%s\" y=\"%s\">%s</text>\n", num(x+5), num(y), html.EscapeString(line))
	}
	p.printf("</g>\n")
}

// script writes the style and script toggling tooltips on hover.
func script(p *printer, id uint64) {
	p.printf("%s", strings.ReplaceAll(hoverScript, "{id}", strconv.FormatUint(id, 10)))
}

const hoverScript = `
   <style>
      .task-highlight {
        fill: #ec008c;
        opacity: 1;
      }
    </style>
  <script><![CDATA[

    displayTips();

    function displayTips() {
        let tasks = document.getElementsByClassName('task{id}');
        for (let i = 0; i < tasks.length ; i++) {
          let task = tasks[i];
          let tip_id = task.id;
          let tip = document.getElementById('tip_{id}_'+tip_id);
          tip.style.display='none';
          tasks[i].tip = tip;
          tasks[i].addEventListener('mouseover', mouseOverEffect);
          tasks[i].addEventListener('mouseout', mouseOutEffect);
        }
    }

    function mouseOverEffect() {
      this.classList.add("task-highlight");
      this.tip.style.display='block';
    }

    function mouseOutEffect() {
      this.classList.remove("task-highlight");
      this.tip.style.display='none';
    }
  ]]></script>
`
