package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/timelinez"
)

func TestIdleLanes(t *testing.T) {
	g, err := Build(parallelSpans(), Options{})
	require.NoError(t, err)

	lanes := g.IdleLanes()
	byThread := make(map[int][]Idle)
	for _, idle := range lanes {
		assert.Equal(t, IdleLabel, idle.Label)
		byThread[idle.Thread] = append(byThread[idle.Thread], idle)
	}

	// Thread 0 only waits for the parallel branches.
	require.Len(t, byThread[0], 1)
	assert.Equal(t, uint64(0), byThread[0][0].Start)
	assert.Equal(t, uint64(400), byThread[0][0].End)

	require.Len(t, byThread[1], 1)
	one := byThread[1][0]
	assert.Equal(t, uint64(100), one.Start)
	assert.Equal(t, uint64(400), one.End)
	assert.InDelta(t, 0, one.X, delta)
	assert.InDelta(t, 1440, one.Width, delta)
	assert.InDelta(t, 720, one.Y, delta)
	assert.InDelta(t, 180, one.Height, delta)

	require.Len(t, byThread[2], 1)
	assert.Equal(t, uint64(300), byThread[2][0].Start)
}

func TestIdleLanesBusyThread(t *testing.T) {
	g, err := Build(spanSet(
		timelinez.Span{ID: 1, Name: "main_task", Start: 0, End: 1000},
		timelinez.Span{ID: 2, Parent: 1, Name: "work", Start: 100, End: 900},
	), Options{})
	require.NoError(t, err)
	assert.Empty(t, g.IdleLanes())
}
