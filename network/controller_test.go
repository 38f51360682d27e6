package network

import (
	"context"
	"sync"
	"testing"
	"time"

	"choopy/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

// fakeTimers records scheduled callbacks so tests decide when they fire.
type fakeTimers struct {
	mu      sync.Mutex
	fns     []func()
	stopped []bool
	delays  []time.Duration
}

type fakeTimer struct {
	ft  *fakeTimers
	idx int
}

func (t fakeTimer) Stop() bool {
	t.ft.mu.Lock()
	defer t.ft.mu.Unlock()
	was := t.ft.stopped[t.idx]
	t.ft.stopped[t.idx] = true
	return !was
}

func (ft *fakeTimers) after(d time.Duration, f func()) Stopper {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.fns = append(ft.fns, f)
	ft.stopped = append(ft.stopped, false)
	ft.delays = append(ft.delays, d)
	return fakeTimer{ft: ft, idx: len(ft.fns) - 1}
}

func (ft *fakeTimers) fire(i int) {
	ft.mu.Lock()
	f := ft.fns[i]
	ft.mu.Unlock()
	f()
}

func (ft *fakeTimers) count() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.fns)
}

func twoClusters() []core.Node {
	return []core.Node{
		{ID: 0, Pos: core.Point{X: 0, Y: 0}},
		{ID: 1, Pos: core.Point{X: 300, Y: 0}},
		{ID: 2, Pos: core.Point{X: 370, Y: 0}},
		{ID: 3, Pos: core.Point{X: 70, Y: 0}},
	}
}

func TestControllerDebounceSingleFire(t *testing.T) {
	ft := &fakeTimers{}
	c := NewController(DefaultParams(), WithAfterFunc(ft.after), WithLogger(zaptest.NewLogger(t)))
	defer c.Close()

	c.Handle(Loaded{Nodes: twoClusters()})
	c.Handle(Grab{ID: 0, At: core.Point{X: 1, Y: 1}})
	c.Handle(Release{})
	c.Handle(Grab{ID: 1, At: core.Point{X: 301, Y: 1}})
	c.Handle(Release{})

	require.Equal(t, 2, ft.count())
	assert.True(t, ft.stopped[0], "first timer must be cancelled by the second drag")
	assert.Equal(t, DefaultSettleDelay, ft.delays[1])

	// A stale firing racing the cancel is dropped.
	ft.fire(0)
	assert.False(t, c.ProcessPending())

	ft.fire(1)
	assert.True(t, c.ProcessPending())

	s := c.State()
	assert.True(t, s.Links.Linked(1, 2))
	assert.False(t, s.Links.Has(0), "scan for the earlier drag must not run")
	assert.False(t, s.Links.Has(3))
}

func TestControllerSettleSurvivesRelease(t *testing.T) {
	ft := &fakeTimers{}
	c := NewController(DefaultParams(), WithAfterFunc(ft.after))
	defer c.Close()

	c.Handle(Loaded{Nodes: twoClusters()})
	c.Handle(Grab{ID: 0, At: core.Point{}})
	c.Handle(Release{})

	ft.fire(0)
	require.True(t, c.ProcessPending())
	assert.True(t, c.State().Links.Linked(0, 3))
}

func TestControllerMoveRestartsTimer(t *testing.T) {
	ft := &fakeTimers{}
	c := NewController(DefaultParams(), WithAfterFunc(ft.after), WithSettleDelay(250*time.Millisecond))
	defer c.Close()

	c.Handle(Loaded{Nodes: twoClusters()})
	c.Handle(Grab{ID: 0, At: core.Point{}})
	c.Handle(Move{At: core.Point{X: 1}})
	c.Handle(Move{At: core.Point{X: 2}})

	require.Equal(t, 3, ft.count())
	assert.True(t, ft.stopped[0])
	assert.True(t, ft.stopped[1])
	assert.False(t, ft.stopped[2])
	assert.Equal(t, 250*time.Millisecond, ft.delays[2])
}

func TestControllerUnbindCancelsPendingScan(t *testing.T) {
	ft := &fakeTimers{}
	c := NewController(DefaultParams(), WithAfterFunc(ft.after))
	defer c.Close()

	c.Handle(Loaded{Nodes: twoClusters()})
	c.Handle(Grab{ID: 0, At: core.Point{}})
	c.Handle(Release{})
	c.Handle(Unbind{ID: 0})

	assert.True(t, ft.stopped[0])
	ft.fire(0)
	assert.False(t, c.ProcessPending())
	assert.False(t, c.State().Links.Has(0))

	// a later drag still schedules a scan
	c.Handle(Grab{ID: 0, At: core.Point{}})
	ft.fire(1)
	assert.True(t, c.ProcessPending())
	assert.True(t, c.State().Links.Linked(0, 3))
}

func TestControllerCloseDropsPendingFire(t *testing.T) {
	ft := &fakeTimers{}
	c := NewController(DefaultParams(), WithAfterFunc(ft.after))

	c.Handle(Loaded{Nodes: twoClusters()})
	c.Handle(Grab{ID: 0, At: core.Point{}})
	c.Close()
	c.Close()

	assert.True(t, ft.stopped[0])
	ft.fire(0)
	assert.False(t, c.ProcessPending())
	assert.False(t, c.State().Links.Has(0))

	// arming after close schedules nothing
	c.Handle(Grab{ID: 1, At: core.Point{}})
	assert.Equal(t, 1, ft.count())
}

func TestControllerRunEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(DefaultParams(), WithSettleDelay(5*time.Millisecond))
	in := make(chan Event, 16)

	var mu sync.Mutex
	var latest State
	render := func(s State) {
		mu.Lock()
		latest = s
		mu.Unlock()
	}
	snapshot := func() State {
		mu.Lock()
		defer mu.Unlock()
		return latest
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, in, render) }()

	in <- Loaded{Nodes: twoClusters()}
	in <- Press{At: core.Point{X: 10, Y: 10}}
	in <- Move{At: core.Point{X: 15, Y: 10}}
	in <- Release{}

	require.Eventually(t, func() bool {
		return snapshot().Links.Linked(0, 3)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, core.Point{X: 5, Y: 0}, snapshot().Nodes[0].Pos)

	cancel()
	require.NoError(t, <-done)
}

func TestControllerRunStopsWhenInputCloses(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewController(DefaultParams())
	in := make(chan Event)
	close(in)

	assert.NoError(t, c.Run(context.Background(), in, nil))
}

func TestCoalesceKeepsLastMove(t *testing.T) {
	in := make(chan Event, 8)
	in <- Move{At: core.Point{X: 2}}
	in <- Move{At: core.Point{X: 3}}
	in <- Release{}
	in <- Move{At: core.Point{X: 9}}

	ev, next := coalesce(in, Move{At: core.Point{X: 1}})

	assert.Equal(t, Move{At: core.Point{X: 3}}, ev)
	assert.Equal(t, Release{}, next)
	assert.Len(t, in, 1)

	ev, next = coalesce(in, Move{At: core.Point{X: 4}})
	assert.Equal(t, Move{At: core.Point{X: 9}}, ev)
	assert.Nil(t, next)
}
