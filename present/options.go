package present

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Option configures a Chain during creation.
type Option func(*options)

type options struct {
	presentMode gputypes.PresentMode
}

func defaultOptions() options {
	return options{presentMode: gputypes.PresentModeFifo}
}

// WithPresentMode requests a present mode. Modes the surface does not
// support fall back to Fifo, which every surface supports.
func WithPresentMode(m gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// ParsePresentMode maps a present mode name to its value. Names are
// case-insensitive: "fifo" (or "vsync"), "fifo-relaxed", "immediate" and
// "mailbox".
func ParsePresentMode(name string) (gputypes.PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fifo", "vsync":
		return gputypes.PresentModeFifo, nil
	case "fifo-relaxed", "fiforelaxed", "relaxed":
		return gputypes.PresentModeFifoRelaxed, nil
	case "immediate", "novsync":
		return gputypes.PresentModeImmediate, nil
	case "mailbox":
		return gputypes.PresentModeMailbox, nil
	}
	return gputypes.PresentModeUndefined, fmt.Errorf("present: unknown present mode %q", name)
}
