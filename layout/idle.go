package layout

import (
	"cmp"
	"slices"
)

// Idle is a positioned stretch of time a thread spent outside of any task.
type Idle struct {
	Task
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IdleLanes returns, for every thread, the holes between its leaf tasks
// over [0, g.End). The lanes are stacked at the bottom of the diagram,
// one row per thread, idle stretches laid out left to right.
func (g *Graph) IdleLanes() []Idle {
	perThread := make([][]Task, g.Threads)
	for leaf := range g.Tasks() {
		t := leaf.Task
		perThread[t.Thread] = append(perThread[t.Thread], *t)
	}

	var lanes []Idle
	for thread, tasks := range perThread {
		slices.SortStableFunc(tasks, func(a, b Task) int {
			return cmp.Compare(a.Start, b.Start)
		})

		var x, busyUntil uint64
		emit := func(start, end uint64) {
			if end <= start {
				return
			}
			lanes = append(lanes, Idle{
				Task:   Task{Label: IdleLabel, Start: start, End: end, Thread: thread},
				X:      float64(x) / g.XScale,
				Y:      g.Height - float64(thread+1)/g.YScale,
				Width:  float64(end-start) / g.XScale,
				Height: 1 / g.YScale,
			})
			x += end - start
		}
		for _, t := range tasks {
			emit(busyUntil, t.Start)
			busyUntil = max(busyUntil, t.End)
		}
		emit(busyUntil, g.End)
	}
	return lanes
}
