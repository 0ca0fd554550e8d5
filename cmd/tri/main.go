// Command tri opens a window and draws a colored triangle with WebGPU.
//
// F3 shows or hides the diagnostics overlay and Escape quits. Build with
// -tags imgui to replace the built-in panel with the Dear ImGui demo window.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/tri"
	"github.com/gogpu/tri/backend/webgpu"
	"github.com/gogpu/tri/host/glfwhost"
	"github.com/gogpu/tri/present"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

type config struct {
	width, height int
	title         string
	present       string
	backend       string
	fallback      bool
	overlay       bool
	verbose       bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.width, "width", 1280, "window width")
	flag.IntVar(&cfg.height, "height", 720, "window height")
	flag.StringVar(&cfg.title, "title", "tri", "window title")
	flag.StringVar(&cfg.present, "present", "fifo", "present mode: fifo, fifo-relaxed, immediate, mailbox")
	flag.StringVar(&cfg.backend, "backend", "", "graphics API: vulkan, dx12, metal, gl (default $"+webgpu.EnvGraphicsAPI+" or auto)")
	flag.BoolVar(&cfg.fallback, "fallback", false, "force the software fallback adapter")
	flag.BoolVar(&cfg.overlay, "overlay", true, "show the overlay at startup")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose (debug) logging")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	tri.SetLogger(logger)
	webgpu.SetLogger(logger)

	if err := run(cfg); err != nil {
		log.Fatalf("tri: %v", err)
	}
}

func run(cfg config) error {
	mode, err := present.ParsePresentMode(cfg.present)
	if err != nil {
		return err
	}
	backends, err := webgpu.BackendsFromEnv()
	if cfg.backend != "" {
		backends, err = webgpu.ParseBackends(cfg.backend)
	}
	if err != nil {
		return err
	}

	win, err := glfwhost.Open(glfwhost.Config{
		Width:     cfg.width,
		Height:    cfg.height,
		Title:     cfg.title,
		Resizable: true,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	display, handle, err := win.SurfaceHandles()
	if err != nil {
		return err
	}
	gpu, err := webgpu.Open(webgpu.SurfaceTarget{Display: display, Window: handle},
		webgpu.WithBackends(backends),
		webgpu.WithForceFallback(cfg.fallback),
		webgpu.WithDebug(cfg.verbose),
	)
	if err != nil {
		return err
	}
	defer gpu.Release()

	opts := []tri.Option{
		tri.WithPresentMode(mode),
		tri.WithOverlayEnabled(cfg.overlay),
	}
	if ui := newUI(); ui != nil {
		opts = append(opts, tri.WithUI(ui))
	}
	st, err := tri.New(gpu.Device(), gpu.Surface(), win, opts...)
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Info("running", "gpu", gpu.Info().String())
	for !win.ShouldClose() {
		events := win.PollEvents
		if w, h := st.Size(); w == 0 || h == 0 {
			// Minimized: block instead of spinning.
			events = win.WaitEvents
		}
		for _, ev := range events() {
			st.Input(ev)
		}
		st.Update()
		if err := st.Render(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	s := st.Stats()
	slog.Info("exiting", "frames", s.Frames, "skipped", s.Skipped, "overlay_failures", s.OverlayFailures)
	return nil
}
