package viewer

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-mdl/engine/camera"
)

type ViewerBuilderOption func(*viewer)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithTitle(title string) ViewerBuilderOption {
	return func(v *viewer) {
		v.title = title
	}
}

// WithSize sets the initial window size in pixels.
//
// Parameters:
//   - width: the window width
//   - height: the window height
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithSize(width, height int) ViewerBuilderOption {
	return func(v *viewer) {
		v.width = width
		v.height = height
	}
}

// WithCamera draws through cam instead of a camera framing the first sequence.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithCamera(cam camera.Camera) ViewerBuilderOption {
	return func(v *viewer) {
		v.camera = cam
		v.framed = true
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
//   - ViewerBuilderOption: option function to apply
func WithColors(background, bone, joint, bounds color.Color) ViewerBuilderOption {
	return func(v *viewer) {
		if background != nil {
			v.background = background
		}
		if bone != nil {
			v.boneColor = bone
		}
		if joint != nil {
			v.jointColor = joint
		}
		if bounds != nil {
			v.boundsColor = bounds
		}
	}
}
