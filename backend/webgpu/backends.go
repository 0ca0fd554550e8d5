package webgpu

import (
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
)

// EnvGraphicsAPI names the environment variable consulted by BackendsFromEnv.
const EnvGraphicsAPI = "GOGPU_GRAPHICS_API"

// ParseBackends maps a graphics API name to a backend set. The empty string
// and "auto" select the primary backends.
func ParseBackends(name string) (gputypes.Backends, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return gputypes.BackendsPrimary, nil
	case "all":
		return gputypes.BackendsAll, nil
	case "vulkan", "vk":
		return gputypes.BackendsVulkan, nil
	case "dx12", "d3d12":
		return gputypes.BackendsDX12, nil
	case "metal", "mtl":
		return gputypes.BackendsMetal, nil
	case "gl", "gles", "opengl":
		return gputypes.BackendsGL, nil
	}
	return gputypes.BackendsNone, fmt.Errorf("webgpu: unknown graphics API %q", name)
}

// BackendsFromEnv parses EnvGraphicsAPI. An unset variable selects the
// primary backends.
func BackendsFromEnv() (gputypes.Backends, error) {
	return ParseBackends(os.Getenv(EnvGraphicsAPI))
}
