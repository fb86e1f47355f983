package snapshot

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-mdl/engine/camera"
)

type RendererBuilderOption func(*renderer)

// WithSize sets the output image size in pixels.
//
// Parameters:
//   - width: the image width
//   - height: the image height
//
// Returns:
//   - RendererBuilderOption: a function that sets the output size
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width = width
		r.height = height
	}
}

// WithSupersample sets how many times larger than the output the image is drawn before
// scaling down. 1 disables supersampling.
//
// Parameters:
//   - factor: the supersampling factor
//
// Returns:
//   - RendererBuilderOption: a function that sets the supersampling factor
func WithSupersample(factor int) RendererBuilderOption {
	return func(r *renderer) {
		r.supersample = factor
	}
}

// WithViewAngles sets the orbit angles used when the renderer frames the bounding box itself.
//
// Parameters:
//   - azimuth: the horizontal angle in radians, 0 views the model from +X
//   - elevation: the vertical angle in radians
//
// Returns:
//   - RendererBuilderOption: a function that sets the view angles
func WithViewAngles(azimuth, elevation float32) RendererBuilderOption {
	return func(r *renderer) {
		r.azimuth = azimuth
		r.elevation = elevation
	}
}

// WithCamera renders through cam instead of framing the bounding box.
//
// Parameters:
//   - cam: the camera to project with
//
// Returns:
//   - RendererBuilderOption: a function that sets the camera
func WithCamera(cam camera.Camera) RendererBuilderOption {
	return func(r *renderer) {
		r.camera = cam
	}
}

// WithLineWidth sets the bone line width and joint marker size in output pixels.
//
// Parameters:
//   - line: the bone line width
//   - joint: the joint marker side length
//
// Returns:
//   - RendererBuilderOption: a function that sets the stroke sizes
func WithLineWidth(line, joint float32) RendererBuilderOption {
	return func(r *renderer) {
		r.lineWidth = line
		r.jointSize = joint
	}
}

// WithBounds toggles drawing the bounding box.
//
// Parameters:
//   - enabled: whether to draw the box
//
// Returns:
//   - RendererBuilderOption: a function that toggles the box
func WithBounds(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.drawBounds = enabled
	}
}

// WithColors sets the background, bone, joint and bounding box colors.
// A nil color keeps the default.
//
// Parameters:
//   - background: the clear color
//   - bone: the bone line color
//   - joint: the joint marker color
//   - bounds: the bounding box color
//
// Returns:
//   - RendererBuilderOption: a function that sets the colors
func WithColors(background, bone, joint, bounds color.Color) RendererBuilderOption {
	return func(r *renderer) {
		if background != nil {
			r.background = background
		}
		if bone != nil {
			r.boneColor = bone
		}
		if joint != nil {
			r.jointColor = joint
		}
		if bounds != nil {
			r.boundsColor = bounds
		}
	}
}
