package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithDeviceLabel sets the debug label of the GPU device. Defaults to "Skinning Device".
//
// Parameters:
//   - label: the device label
//
// Returns:
//   - RendererBuilderOption: a function that applies the device label option to a renderer
func WithDeviceLabel(label string) RendererBuilderOption {
	return func(r *renderer) {
		if label != "" {
			r.deviceLabel = label
		}
	}
}
