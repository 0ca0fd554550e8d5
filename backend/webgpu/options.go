package webgpu

import "github.com/gogpu/gputypes"

// Option configures Open.
type Option func(*options)

type options struct {
	backends gputypes.Backends
	power    gputypes.PowerPreference
	fallback bool
	debug    bool
	label    string
}

func defaultOptions() options {
	return options{
		backends: gputypes.BackendsPrimary,
		power:    gputypes.PowerPreferenceHighPerformance,
		label:    "tri device",
	}
}

// WithBackends restricts adapter discovery to the given graphics APIs.
func WithBackends(b gputypes.Backends) Option {
	return func(o *options) {
		o.backends = b
	}
}

// WithPowerPreference selects between integrated and discrete adapters.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithForceFallback requests the software fallback adapter.
func WithForceFallback(force bool) Option {
	return func(o *options) {
		o.fallback = force
	}
}

// WithDebug enables backend validation layers when available.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithDeviceLabel sets the debug label of the logical device.
func WithDeviceLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
