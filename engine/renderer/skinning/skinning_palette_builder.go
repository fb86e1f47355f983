package skinning

import "github.com/cogentcore/webgpu/wgpu"

// SkinningPaletteBuilderOption is a functional option for configuring a SkinningPalette via NewSkinningPalette.
type SkinningPaletteBuilderOption func(*skinningPalette)

// WithLabel sets the debug label used for the palette's GPU objects.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - SkinningPaletteBuilderOption: a function that applies the label option to a palette
func WithLabel(label string) SkinningPaletteBuilderOption {
	return func(p *skinningPalette) {
		p.label = label
	}
}

// WithBindings sets the binding indices of the header uniform and the palette storage buffer.
// Defaults are 0 and 1.
//
// Parameters:
//   - headerBinding: the binding index of the header uniform
//   - paletteBinding: the binding index of the palette storage buffer
//
// Returns:
//   - SkinningPaletteBuilderOption: a function that applies the bindings option to a palette
func WithBindings(headerBinding, paletteBinding int) SkinningPaletteBuilderOption {
	return func(p *skinningPalette) {
		p.headerBinding = headerBinding
		p.paletteBinding = paletteBinding
	}
}

// WithVisibility sets the shader stages the palette is visible to.
// Defaults to vertex and compute.
//
// Parameters:
//   - visibility: the shader stage mask
//
// Returns:
//   - SkinningPaletteBuilderOption: a function that applies the visibility option to a palette
func WithVisibility(visibility wgpu.ShaderStage) SkinningPaletteBuilderOption {
	return func(p *skinningPalette) {
		p.visibility = visibility
	}
}
