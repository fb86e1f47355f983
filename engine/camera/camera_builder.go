package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithTarget sets the point the camera orbits.
//
// Parameters:
//   - target: the orbit center
//
// Returns:
//   - CameraBuilderOption: a function that sets the orbit center
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = target
	}
}

// WithRadius sets the initial orbit radius. It is clamped to the radius bounds once all
// options are applied.
//
// Parameters:
//   - radius: the distance from eye to target
//
// Returns:
//   - CameraBuilderOption: a function that sets the radius
func WithRadius(radius float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.radius = radius
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: the horizontal angle around the up axis
//   - elevation: the vertical angle from the ground plane
//
// Returns:
//   - CameraBuilderOption: a function that sets the orbit angles
func WithAngles(azimuth, elevation float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.azimuth = azimuth
		c.elevation = elevation
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: the closest the eye may get to the target
//   - max: the furthest the eye may get from the target
//
// Returns:
//   - CameraBuilderOption: a function that sets the radius bounds
func WithRadiusBounds(min, max float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.minRadius = min
		c.maxRadius = max
	}
}

// WithSpeeds sets how far one Orbit or Zoom step moves the camera.
//
// Parameters:
//   - orbit: radians per orbit step
//   - zoom: world units per zoom step
//
// Returns:
//   - CameraBuilderOption: a function that sets the step sizes
func WithSpeeds(orbit, zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orbitSpeed = orbit
		c.zoomSpeed = zoom
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}
