package terminal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"choopy/canvas"
	"choopy/core"
	"choopy/network"
	"choopy/playlist"
	"choopy/render"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testSnapshot() *snapshot {
	nodes := []core.Node{{ID: 0}, {ID: 1}}
	return &snapshot{
		frame: render.Frame{Rects: map[int]canvas.Rect{
			0: {X: 0, Y: 1, W: 10, H: 5},
			1: {X: 20, Y: 1, W: 10, H: 5},
		}},
		nodes:   nodes,
		hovered: core.NoNode,
	}
}

func TestClickTracker(t *testing.T) {
	c := clickTracker{window: 400 * time.Millisecond}
	t0 := time.Unix(100, 0)

	assert.False(t, c.press(t0, 1, 5, 5))
	assert.True(t, c.press(t0.Add(300*time.Millisecond), 1, 6, 5), "second press nearby")
	assert.False(t, c.press(t0.Add(350*time.Millisecond), 1, 6, 5), "a third press starts over")

	assert.False(t, c.press(t0.Add(2*time.Second), 1, 5, 5))
	assert.False(t, c.press(t0.Add(2*time.Second+500*time.Millisecond), 1, 5, 5), "too slow")

	assert.False(t, c.press(t0.Add(4*time.Second), 1, 5, 5))
	assert.False(t, c.press(t0.Add(4*time.Second+100*time.Millisecond), 2, 5, 5), "other node")

	assert.False(t, c.press(t0.Add(6*time.Second), 1, 5, 5))
	assert.False(t, c.press(t0.Add(6*time.Second+100*time.Millisecond), 1, 8, 5), "moved away")
}

func TestTranslateDrag(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), 0)
	snap := testSnapshot()

	evs := tr.mouse(tcell.NewEventMouse(22, 3, tcell.Button1, tcell.ModNone), snap)
	require.Len(t, evs, 1)
	assert.Equal(t, network.Grab{ID: 1, At: core.Point{X: 135, Y: 30}}, evs[0])

	assert.Empty(t, tr.mouse(tcell.NewEventMouse(22, 3, tcell.Button1, tcell.ModNone), snap), "no motion")

	snap.hovered = 1
	evs = tr.mouse(tcell.NewEventMouse(25, 4, tcell.Button1, tcell.ModNone), snap)
	assert.Equal(t, []network.Event{network.Move{At: core.Point{X: 153, Y: 42}}}, evs)

	evs = tr.mouse(tcell.NewEventMouse(25, 4, tcell.ButtonNone, tcell.ModNone), snap)
	assert.Equal(t, []network.Event{network.Release{}}, evs)
}

func TestTranslateHoverFollowsDrag(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), 0)
	snap := testSnapshot()
	snap.hovered = 1

	tr.mouse(tcell.NewEventMouse(22, 3, tcell.Button1, tcell.ModNone), snap)

	evs := tr.mouse(tcell.NewEventMouse(5, 3, tcell.Button1, tcell.ModNone), snap)
	assert.Equal(t, []network.Event{
		network.Move{At: core.Point{X: 33, Y: 30}},
		network.HoverNode{ID: 0},
	}, evs)

	evs = tr.mouse(tcell.NewEventMouse(15, 3, tcell.Button1, tcell.ModNone), snap)
	assert.Equal(t, []network.Event{
		network.Move{At: core.Point{X: 93, Y: 30}},
		network.HoverNode{ID: core.NoNode},
	}, evs)
}

func TestTranslateHoverBeforeFirstFrame(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), 0)

	assert.Empty(t, tr.mouse(tcell.NewEventMouse(2, 2, tcell.ButtonNone, tcell.ModNone), nil))
	assert.Empty(t, tr.mouse(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone), nil))
}

func TestTranslatePressOnEmptyCell(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), 0)
	snap := testSnapshot()

	assert.Empty(t, tr.mouse(tcell.NewEventMouse(15, 3, tcell.Button1, tcell.ModNone), snap))
	assert.Equal(t, []network.Event{network.Release{}},
		tr.mouse(tcell.NewEventMouse(15, 3, tcell.ButtonNone, tcell.ModNone), snap))
}

func TestTranslateHover(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), 0)
	snap := testSnapshot()

	evs := tr.mouse(tcell.NewEventMouse(2, 2, tcell.ButtonNone, tcell.ModNone), snap)
	assert.Equal(t, []network.Event{network.HoverNode{ID: 0}}, evs)

	snap.hovered = 0
	assert.Empty(t, tr.mouse(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone), snap))

	evs = tr.mouse(tcell.NewEventMouse(15, 2, tcell.ButtonNone, tcell.ModNone), snap)
	assert.Equal(t, []network.Event{network.HoverNode{ID: core.NoNode}}, evs)
}

func TestTranslateDoubleClick(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), time.Minute)
	snap := testSnapshot()

	tr.mouse(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone), snap)
	tr.mouse(tcell.NewEventMouse(2, 2, tcell.ButtonNone, tcell.ModNone), snap)
	evs := tr.mouse(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone), snap)

	require.Len(t, evs, 2)
	assert.IsType(t, network.Grab{}, evs[0])
	assert.Equal(t, network.Unbind{ID: 0}, evs[1])
}

func TestTranslateFocusLostReleases(t *testing.T) {
	tr := newTranslator(render.DefaultViewport(), 0)
	snap := testSnapshot()

	assert.Empty(t, tr.focus(tcell.NewEventFocus(false)), "nothing held")
	tr.mouse(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone), snap)
	assert.Empty(t, tr.focus(tcell.NewEventFocus(true)))
	assert.Equal(t, []network.Event{network.Release{}}, tr.focus(tcell.NewEventFocus(false)))
	assert.False(t, tr.held)
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && i%w == 0 {
			b.WriteByte('\n')
		}
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func writeJSON(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testOptions(t *testing.T) Options {
	dir := t.TempDir()
	return Options{
		Source: writeJSON(t, dir, "Papers.json",
			`[{"name":"Attention","author":"Vaswani","time":2017},{"name":"ResNet","author":"He","time":2016}]`),
		MusicIndex: writeJSON(t, dir, "index.json",
			`{"groups":[{"name":"calm","tracks":[{"id":"t1","title":"Rain","filename":"rain.mp3","group":"calm"}]}]}`),
		MusicMode:   playlist.ModeOrder,
		MusicVolume: 0.5,
		Params:      network.DefaultParams(),
		SettleDelay: 10 * time.Millisecond,
		Viewport:    render.DefaultViewport(),
		Fallback:    core.Size{W: 480, H: 280},
		Seed:        42,
	}
}

func TestAppLoadsDrawsAndQuits(t *testing.T) {
	defer goleak.VerifyNone(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	app := New(screen, testOptions(t))

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		s := app.snap.Load()
		return s != nil && len(s.nodes) == 2 && app.player.Load() != nil
	}, 2*time.Second, 10*time.Millisecond)

	text := screenText(screen)
	assert.Contains(t, text, "Paper Network")
	// a 10-column bubble leaves eight columns for the label
	assert.Contains(t, text, "Attenti…")
	assert.Contains(t, text, "ResNet")

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	require.Eventually(t, func() bool {
		return app.player.Load().State().Playing
	}, time.Second, 10*time.Millisecond)
	assert.InDelta(t, 0.5, app.player.Load().State().Volume, 1e-9)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not quit")
	}

	assert.Len(t, app.State().Nodes, 2)
	for _, n := range app.State().Nodes {
		assert.True(t, n.Pos.X >= 0 && n.Pos.Y >= 0)
	}
}

func TestAppStaysLoadingWhenFetchFails(t *testing.T) {
	defer goleak.VerifyNone(t)

	opts := testOptions(t)
	opts.Source = filepath.Join(t.TempDir(), "missing.json")
	opts.MusicIndex = ""

	screen := tcell.NewSimulationScreen("UTF-8")
	app := New(screen, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(screenText(screen), "Loading...")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, screenText(screen), "no music")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop on cancel")
	}
	assert.Empty(t, app.State().Nodes)
}
