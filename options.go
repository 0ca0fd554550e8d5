package tri

import (
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/tri/overlay"
)

// Option configures a State during creation.
//
// Example:
//
//	st, err := tri.New(dev, surface, win,
//	    tri.WithPresentMode(gputypes.PresentModeMailbox),
//	    tri.WithOverlayEnabled(false))
type Option func(*options)

type options struct {
	presentMode    gputypes.PresentMode
	overlayKey     gpucontext.Key
	overlayEnabled bool
	ui             overlay.UI
	clock          func() time.Time
}

// defaultOptions returns the default state options.
func defaultOptions() options {
	return options{
		presentMode:    gputypes.PresentModeFifo,
		overlayKey:     gpucontext.KeyF3,
		overlayEnabled: true,
		clock:          time.Now,
	}
}

// WithPresentMode requests a present mode. Unsupported modes fall back to
// Fifo.
func WithPresentMode(m gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithOverlayKey sets the key that shows and hides the overlay. The
// default is F3.
func WithOverlayKey(k gpucontext.Key) Option {
	return func(o *options) {
		o.overlayKey = k
	}
}

// WithOverlayEnabled sets whether the overlay is shown at startup.
func WithOverlayEnabled(enabled bool) Option {
	return func(o *options) {
		o.overlayEnabled = enabled
	}
}

// WithUI replaces the built-in diagnostics panel with another
// immediate-mode UI.
func WithUI(ui overlay.UI) Option {
	return func(o *options) {
		o.ui = ui
	}
}

// WithClock sets the time source for frame timing. Tests use it to make
// frame deltas deterministic.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}
