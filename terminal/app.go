// Package terminal runs the paper network as a full-screen tcell program.
package terminal

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"choopy/core"
	"choopy/demo"
	"choopy/importer"
	"choopy/layout"
	"choopy/network"
	"choopy/playlist"
	"choopy/render"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const keyHints = "drag: move  double-click/u: unbind  space n p m +/-: music  q: quit"

// Options configures an App.
type Options struct {
	Source      string // papers file or URL
	MusicIndex  string // empty disables music
	MusicGroups []string
	MusicMode   playlist.PlayMode
	MusicVolume float64
	Params      network.Params
	SettleDelay time.Duration
	DoubleClick time.Duration
	Viewport    render.Viewport
	Fallback    core.Size // pixel viewport for a scatter before measurement
	Seed        int64     // 0 picks a random layout
	Script      *demo.Script // played once the papers are loaded
	Logger      *zap.Logger
}

// App wires a screen to a network controller. Input is read on its own
// goroutine; every state change and draw happens on the controller's loop.
type App struct {
	screen   tcell.Screen
	opts     Options
	log      *zap.Logger
	ctrl     *network.Controller
	renderer *render.Renderer
	input    *translator
	events   chan network.Event

	snap   atomic.Pointer[snapshot]
	player atomic.Pointer[playlist.Player]
}

// New creates an app drawing on screen. The screen is initialized by Run.
func New(screen tcell.Screen, opts Options) *App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		screen: screen,
		opts:   opts,
		log:    log,
		ctrl: network.NewController(opts.Params,
			network.WithSettleDelay(opts.SettleDelay),
			network.WithLogger(log.Named("network"))),
		renderer: render.NewRenderer(opts.Viewport),
		input:    newTranslator(opts.Viewport, opts.DoubleClick),
		events:   make(chan network.Event, 64),
	}
}

// Run takes over the screen until the user quits or ctx is cancelled. The
// pending settle timer is cancelled on the way out.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	a.screen.EnableFocus()
	a.screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.events <- a.resized()

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		a.poll(ctx, cancel)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.ctrl.Run(gctx, a.events, a.draw)
	})
	g.Go(func() error {
		a.load(gctx)
		return nil
	})
	err := g.Wait()

	a.screen.Fini()
	<-polled
	a.log.Info("network closed")
	return err
}

// State returns the controller's current state. It is only safe to call
// once Run has returned.
func (a *App) State() network.State {
	return a.ctrl.State()
}

func (a *App) send(ctx context.Context, evs ...network.Event) {
	for _, ev := range evs {
		select {
		case a.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// poll reads screen events until the screen is finalized.
func (a *App) poll(ctx context.Context, quit context.CancelFunc) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
			a.send(ctx, a.resized())
		case *tcell.EventMouse:
			a.send(ctx, a.input.mouse(ev, a.snap.Load())...)
		case *tcell.EventFocus:
			a.send(ctx, a.input.focus(ev)...)
		case *tcell.EventKey:
			if a.key(ctx, ev) {
				a.log.Debug("quit requested")
				quit()
			}
		}
	}
}

// key handles one key press and reports whether it asks to quit.
func (a *App) key(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'u':
		if s := a.snap.Load(); s != nil && s.hovered != core.NoNode {
			a.send(ctx, network.Unbind{ID: s.hovered})
		}
		return false
	}

	p := a.player.Load()
	if p == nil {
		return false
	}
	switch ev.Rune() {
	case ' ':
		p.Toggle()
	case 'n':
		p.Next()
	case 'p':
		p.Previous()
	case 'm':
		p.CycleMode()
	case '+', '=':
		p.Volume(playlist.VolumeStep)
	case '-':
		p.Volume(-playlist.VolumeStep)
	default:
		return false
	}
	a.send(ctx, network.Refresh{})
	return false
}

// resized measures the network area of the screen.
func (a *App) resized() network.Event {
	w, h := a.screen.Size()
	cols, rows := a.renderer.Area(w, h)
	return network.Resized{Bounds: a.renderer.Viewport.Bounds(cols, rows)}
}

// load fetches papers and the music index concurrently, then scatters the
// papers over the network area. Failed papers leave the network loading.
func (a *App) load(ctx context.Context) {
	var (
		papers []core.Paper
		groups []playlist.Group
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		papers = importer.Fetch(gctx, a.opts.Source, a.log.Named("importer"))
		return nil
	})
	g.Go(func() error {
		groups = playlist.FetchIndex(gctx, a.opts.MusicIndex, a.log.Named("music"))
		return nil
	})
	_ = g.Wait()

	// layout and player each get their own source; the player's is used
	// from the input goroutine
	var layoutRNG, musicRNG *rand.Rand
	if a.opts.Seed != 0 {
		layoutRNG = rand.New(rand.NewSource(a.opts.Seed))
		musicRNG = rand.New(rand.NewSource(a.opts.Seed + 1))
	}

	if len(groups) > 0 {
		p := playlist.NewPlayer(groups, musicRNG, a.log.Named("music"))
		if len(a.opts.MusicGroups) > 0 {
			p.SetGroups(a.opts.MusicGroups)
		}
		p.SetMode(a.opts.MusicMode)
		p.SetVolume(a.opts.MusicVolume)
		a.player.Store(p)
	}

	if len(papers) == 0 {
		a.send(ctx, network.Refresh{})
		return
	}
	bounds := a.resized().(network.Resized).Bounds
	nodes := layout.Scatter(papers, bounds, a.opts.Fallback, a.opts.Params.Size, layoutRNG)
	a.send(ctx, network.Loaded{Nodes: nodes})

	if a.opts.Script != nil {
		a.log.Info("playing demo script", zap.String("name", a.opts.Script.Name))
		current := func() network.State {
			s := network.NewState(a.opts.Params)
			s.Nodes = nodes
			if snap := a.snap.Load(); snap != nil && len(snap.nodes) > 0 {
				s.Nodes = snap.nodes
			}
			return s
		}
		err := demo.Play(ctx, a.opts.Script, current, func(ev network.Event) { a.send(ctx, ev) })
		if err != nil && ctx.Err() == nil {
			a.log.Warn("demo script stopped", zap.Error(err))
		}
	}
}

func (a *App) status() string {
	music := "♪ no music"
	if p := a.player.Load(); p != nil {
		music = p.Status()
	}
	return music + "  │  " + keyHints
}

// draw runs on the controller loop after every update.
func (a *App) draw(s network.State) {
	frame := a.renderer.Draw(a.screen, s, a.status())
	a.screen.Show()
	a.snap.Store(&snapshot{frame: frame, nodes: s.Nodes, hovered: s.Hovered})
}
