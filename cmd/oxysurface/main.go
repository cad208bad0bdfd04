// Command oxysurface opens one or more windows, each driven by its own render
// thread that clears the surface to a configurable color.
//
// Keys: Space toggles between continuous and on-demand rendering, R requests
// a frame, L releases the graphics context, P pauses or resumes every window,
// Escape closes the focused window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/Carmen-Shannon/oxy-surface/common"
	"github.com/Carmen-Shannon/oxy-surface/engine"
	"github.com/Carmen-Shannon/oxy-surface/engine/graphics/wgpuplatform"
	"github.com/Carmen-Shannon/oxy-surface/engine/renderthread"
	"github.com/Carmen-Shannon/oxy-surface/engine/surfaceview"
	"github.com/Carmen-Shannon/oxy-surface/engine/window"
)

func init() {
	// GLFW must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "oxysurface:", err)
		os.Exit(1)
	}
}

// view is one window with its surface view and renderer.
type view struct {
	window   window.Window
	surface  surfaceview.SurfaceView
	renderer *clearRenderer
}

func run(configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	logger := common.Logger().With("component", "demo")

	presentMode, _ := cfg.Graphics.Mode()
	platform := wgpuplatform.NewPlatform(
		wgpuplatform.WithPresentMode(presentMode),
		wgpuplatform.WithForceFallbackAdapter(cfg.Graphics.ForceFallbackAdapter),
		wgpuplatform.WithDeviceLabel(cfg.Graphics.DeviceLabel),
	)

	var (
		fatalMu  sync.Mutex
		fatalErr error
	)
	quit := make(chan struct{}, 1)
	onFatal := func(err error) {
		fatalMu.Lock()
		fatalErr = errors.Join(fatalErr, err)
		fatalMu.Unlock()
		select {
		case quit <- struct{}{}:
		default:
		}
	}

	views := make([]view, 0, len(cfg.Windows))
	for _, wc := range cfg.Windows {
		v, err := openView(platform, wc, onFatal)
		if err != nil {
			for _, o := range views {
				o.surface.Close()
				_ = o.window.Close()
			}
			return err
		}
		views = append(views, v)
	}

	options := []engine.EngineBuilderOption{
		engine.WithTickRate(cfg.TickRate),
		engine.WithWorkers(cfg.Workers),
		engine.WithTickCallback(func(dt float32) {
			for _, v := range views {
				if v.renderer.Advance(dt) && v.surface.RenderMode() == renderthread.RenderModeWhenDirty {
					v.surface.RequestRender()
				}
			}
		}),
	}
	for _, v := range views {
		options = append(options, engine.WithView(v.window, v.surface))
	}
	eng := engine.NewEngine(options...)

	paused := false
	for _, v := range views {
		v.window.SetKeyDownCallback(func(key uint32) {
			switch key {
			case common.KeySpace:
				next := renderthread.RenderModeWhenDirty
				if v.surface.RenderMode() == renderthread.RenderModeWhenDirty {
					next = renderthread.RenderModeContinuously
				}
				_ = v.surface.SetRenderMode(next)
				logger.Info("render mode", "window", v.window.Title(), "mode", next)
			case common.KeyR:
				v.surface.RequestRender()
			case common.KeyL:
				v.surface.RequestReleaseContext()
			case common.KeyP:
				if paused {
					eng.Resume()
				} else {
					eng.Pause()
				}
				paused = !paused
				logger.Info("paused", "value", paused)
			}
		})
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-signals:
			logger.Info("signal received", "signal", sig)
		case <-quit:
			logger.Info("stopping after render thread failure")
		case <-done:
			return
		}
		eng.Quit()
	}()

	eng.Run()

	fatalMu.Lock()
	defer fatalMu.Unlock()
	return fatalErr
}

func openView(p *wgpuplatform.Platform, wc WindowConfig, onFatal func(error)) (view, error) {
	mode, _ := wc.Mode()
	flags, _ := wc.DebugFlags()

	w, err := window.NewWindow(
		window.WithTitle(wc.Title),
		window.WithWidth(wc.Width),
		window.WithHeight(wc.Height),
		window.WithMinWidth(wc.MinWidth),
		window.WithMinHeight(wc.MinHeight),
		window.WithMaxWidth(wc.MaxWidth),
		window.WithMaxHeight(wc.MaxHeight),
	)
	if err != nil {
		return view{}, err
	}

	sv := surfaceview.New(p, w,
		surfaceview.WithName(wc.Title),
		surfaceview.WithDepth(wc.Depth),
		surfaceview.WithRenderMode(mode),
		surfaceview.WithPreserveContextOnPause(wc.PreserveContext),
		surfaceview.WithDebugFlags(flags),
		surfaceview.WithProfiling(wc.Profiling),
		surfaceview.WithFatalHandler(onFatal),
	)
	r := newClearRenderer(wc.Title, wc.ClearColor, wc.Cycle)
	if err := sv.SetRenderer(r); err != nil {
		sv.Close()
		_ = w.Close()
		return view{}, err
	}
	return view{window: w, surface: sv, renderer: r}, nil
}
