// Package graphicstest provides an in-memory graphics.Platform and a
// recording graphics.Renderer for tests of code that drives render threads.
package graphicstest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-surface/engine/graphics"
)

// Config is a fixed pixel configuration.
type Config struct {
	Red, Green, Blue, Alpha int
	Depth, Stencil          int
}

var _ graphics.Config = Config{}

func (c Config) Attrib(a graphics.Attribute) (int, bool) {
	switch a {
	case graphics.AttribRedSize:
		return c.Red, true
	case graphics.AttribGreenSize:
		return c.Green, true
	case graphics.AttribBlueSize:
		return c.Blue, true
	case graphics.AttribAlphaSize:
		return c.Alpha, true
	case graphics.AttribDepthSize:
		return c.Depth, true
	case graphics.AttribStencilSize:
		return c.Stencil, true
	}
	return 0, false
}

// DefaultConfigs is what a new Platform offers: one RGB 888 config with a
// 16 bit depth buffer and one RGBA 8888 config with depth 24 and stencil 8.
var DefaultConfigs = []graphics.Config{
	Config{Red: 8, Green: 8, Blue: 8, Alpha: 0, Depth: 16},
	Config{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8},
}

// Display, Context and Surface are the handles the fake platform hands out.
type (
	Display struct{ ID int }
	Context struct{ ID int }
	Surface struct {
		ID     int
		Window graphics.NativeWindow
	}
)

// Stats counts platform calls.
type Stats struct {
	DisplaysOpened    int
	DisplaysClosed    int
	ContextsCreated   int
	ContextsDestroyed int
	SurfacesCreated   int
	SurfacesDestroyed int
	MakeCurrent       int
	Presents          int

	// LiveContexts and LiveSurfaces are the handles created and not yet destroyed.
	LiveContexts int
	LiveSurfaces int
}

// Platform is a thread-safe in-memory graphics.Platform.
type Platform struct {
	mu sync.Mutex

	configs []graphics.Config
	nextID  int
	stats   Stats

	liveContexts map[*Context]bool
	liveSurfaces map[*Surface]bool

	openErr           error
	contextErr        error
	destroyContextErr error
	makeCurrentErr    error
	surfaceErrs       []error
	presentErrs       []error

	iface *Interface
}

var _ graphics.Platform = &Platform{}

// NewPlatform returns a Platform offering DefaultConfigs.
func NewPlatform() *Platform {
	return &Platform{
		configs:      DefaultConfigs,
		liveContexts: make(map[*Context]bool),
		liveSurfaces: make(map[*Surface]bool),
		iface:        &Interface{},
	}
}

// SetConfigs replaces the offered configurations.
func (p *Platform) SetConfigs(configs ...graphics.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configs = configs
}

// FailOpenDisplay makes OpenDisplay return err.
func (p *Platform) FailOpenDisplay(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openErr = err
}

// FailCreateContext makes CreateContext return err.
func (p *Platform) FailCreateContext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contextErr = err
}

// FailDestroyContext makes DestroyContext return err.
func (p *Platform) FailDestroyContext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyContextErr = err
}

// FailMakeCurrent makes MakeCurrent return err.
func (p *Platform) FailMakeCurrent(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.makeCurrentErr = err
}

// QueueSurfaceResults queues results for the next CreateWindowSurface calls.
// A nil entry means success.
func (p *Platform) QueueSurfaceResults(errs ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surfaceErrs = append(p.surfaceErrs, errs...)
}

// QueuePresentResults queues results for the next Present calls.
// A nil entry means success.
func (p *Platform) QueuePresentResults(errs ...error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presentErrs = append(p.presentErrs, errs...)
}

// Stats returns a snapshot of the call counters.
func (p *Platform) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.LiveContexts = len(p.liveContexts)
	s.LiveSurfaces = len(p.liveSurfaces)
	return s
}

// DrawInterface returns the fake drawing interface every context shares.
func (p *Platform) DrawInterface() *Interface { return p.iface }

func (p *Platform) OpenDisplay() (graphics.Display, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.nextID++
	p.stats.DisplaysOpened++
	return &Display{ID: p.nextID}, nil
}

func (p *Platform) Configs(graphics.Display) ([]graphics.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]graphics.Config(nil), p.configs...), nil
}

func (p *Platform) CreateContext(graphics.Display, graphics.Config) (graphics.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.contextErr != nil {
		return nil, p.contextErr
	}
	p.nextID++
	c := &Context{ID: p.nextID}
	p.liveContexts[c] = true
	p.stats.ContextsCreated++
	return c, nil
}

func (p *Platform) DestroyContext(_ graphics.Display, ctx graphics.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := ctx.(*Context)
	if !ok || !p.liveContexts[c] {
		return graphics.NewError("DestroyContext", graphics.CodeBadContext)
	}
	delete(p.liveContexts, c)
	p.stats.ContextsDestroyed++
	return p.destroyContextErr
}

func (p *Platform) CreateWindowSurface(_ graphics.Display, _ graphics.Config, win graphics.NativeWindow) (graphics.Surface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.surfaceErrs) > 0 {
		err := p.surfaceErrs[0]
		p.surfaceErrs = p.surfaceErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	p.nextID++
	s := &Surface{ID: p.nextID, Window: win}
	p.liveSurfaces[s] = true
	p.stats.SurfacesCreated++
	return s, nil
}

func (p *Platform) DestroySurface(_ graphics.Display, surf graphics.Surface) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := surf.(*Surface)
	if !ok || !p.liveSurfaces[s] {
		return graphics.NewError("DestroySurface", graphics.CodeBadSurface)
	}
	delete(p.liveSurfaces, s)
	p.stats.SurfacesDestroyed++
	return nil
}

func (p *Platform) MakeCurrent(graphics.Display, graphics.Surface, graphics.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.MakeCurrent++
	return p.makeCurrentErr
}

func (p *Platform) ReleaseCurrent(graphics.Display) error { return nil }

func (p *Platform) Interface(graphics.Display, graphics.Context) graphics.Interface {
	return p.iface
}

func (p *Platform) Present(graphics.Display, graphics.Surface) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Presents++
	if len(p.presentErrs) > 0 {
		err := p.presentErrs[0]
		p.presentErrs = p.presentErrs[1:]
		return err
	}
	return nil
}

func (p *Platform) CloseDisplay(graphics.Display) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.DisplaysClosed++
	return nil
}

// Interface is a recording graphics.Interface.
type Interface struct {
	mu      sync.Mutex
	clears  int
	flushes int
	err     error
}

var _ graphics.Interface = &Interface{}

func (i *Interface) Clear(r, g, b, a float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clears++
}

func (i *Interface) Flush() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.flushes++
}

func (i *Interface) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	err := i.err
	i.err = nil
	return err
}

// SetErr records err as if the last call had failed.
func (i *Interface) SetErr(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.err = err
}

// Clears returns the number of Clear calls.
func (i *Interface) Clears() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.clears
}

// Renderer records every callback in order. The optional hooks run on the
// render goroutine after the callback is recorded.
type Renderer struct {
	mu     sync.Mutex
	calls  []string
	frames int

	OnCreated func(gi graphics.Interface, cfg graphics.Config)
	OnChanged func(gi graphics.Interface, width, height int)
	OnDraw    func(gi graphics.Interface)
}

var _ graphics.Renderer = &Renderer{}

func (r *Renderer) OnSurfaceCreated(gi graphics.Interface, cfg graphics.Config) {
	r.record("created")
	if r.OnCreated != nil {
		r.OnCreated(gi, cfg)
	}
}

func (r *Renderer) OnSurfaceChanged(gi graphics.Interface, width, height int) {
	r.record(fmt.Sprintf("changed %dx%d", width, height))
	if r.OnChanged != nil {
		r.OnChanged(gi, width, height)
	}
}

func (r *Renderer) OnDrawFrame(gi graphics.Interface) {
	r.mu.Lock()
	r.calls = append(r.calls, "draw")
	r.frames++
	r.mu.Unlock()
	gi.Clear(0, 0, 0, 1)
	if r.OnDraw != nil {
		r.OnDraw(gi)
	}
}

// Calls returns a copy of the recorded callback log.
func (r *Renderer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Frames returns the number of OnDrawFrame calls.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Count returns how many recorded calls equal call.
func (r *Renderer) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (r *Renderer) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Collaborators returns the default collaborators for win.
func Collaborators(win graphics.NativeWindow) graphics.Collaborators {
	return graphics.Collaborators{
		ConfigChooser:  graphics.NewSimpleConfigChooser(true),
		ContextFactory: graphics.DefaultContextFactory{},
		SurfaceFactory: graphics.DefaultWindowSurfaceFactory{},
		NativeWindow:   win,
	}
}

// Resolver returns a Resolver that always yields c.
func Resolver(c graphics.Collaborators) graphics.Resolver {
	return func() (graphics.Collaborators, bool) { return c, true }
}
