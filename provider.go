package tri

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

var _ gpucontext.DeviceProvider = (*State)(nil)

// Device implements gpucontext.DeviceProvider. It returns the gfx.Device
// the state renders with; backends expose their native device through it.
func (s *State) Device() gpucontext.Device { return s.device }

// Queue implements gpucontext.DeviceProvider.
func (s *State) Queue() gpucontext.Queue { return s.device.Queue() }

// SurfaceFormat implements gpucontext.DeviceProvider.
func (s *State) SurfaceFormat() gputypes.TextureFormat {
	if s.chain == nil {
		return gputypes.TextureFormatUndefined
	}
	return s.chain.Format()
}

// Adapter implements gpucontext.DeviceProvider. Devices that know their
// adapter expose it with an Adapter method; otherwise it is nil.
func (s *State) Adapter() gpucontext.Adapter {
	if a, ok := s.device.(interface{ Adapter() any }); ok {
		return a.Adapter()
	}
	return nil
}

// AdapterInfo implements gpucontext.DeviceProvider.
func (s *State) AdapterInfo() gpucontext.AdapterInfo {
	info := s.device.AdapterInfo()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
