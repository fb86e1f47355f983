package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up axis of studio model space.
var WorldUp = mgl32.Vec3{0, 0, 1}

// cameraImpl is an orbit camera circling a target point in a Z-up world.
type cameraImpl struct {
	mu *sync.Mutex

	target mgl32.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Z, 0 puts the eye on +X
	elevation float32 // Vertical angle from the XY plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	position             mgl32.Vec3
	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
}

// Camera is an orbit camera used to view a posed skeleton.
// It keeps spherical coordinates around a target and recomputes its view and projection
// matrices whenever any of them change. All methods are safe for concurrent use.
type Camera interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// SetTarget moves the orbit center, keeping radius and angles.
	//
	// Parameters:
	//   - target: the new orbit center
	SetTarget(target mgl32.Vec3)

	// Radius returns the distance from the eye to the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// SetRadius sets the orbit radius, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: the new orbit radius
	SetRadius(radius float32)

	// Azimuth returns the horizontal orbit angle in radians.
	//
	// Returns:
	//   - float32: the azimuth
	Azimuth() float32

	// Elevation returns the vertical orbit angle in radians.
	//
	// Returns:
	//   - float32: the elevation
	Elevation() float32

	// Orbit rotates the eye around the target by the given number of orbit steps.
	// Elevation is clamped to the elevation bounds.
	//
	// Parameters:
	//   - horizontal: azimuth steps, positive turns counter-clockwise seen from above
	//   - vertical: elevation steps, positive moves the eye up
	Orbit(horizontal, vertical float32)

	// Zoom moves the eye toward the target by delta zoom steps, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: zoom steps, positive zooms in
	Zoom(delta float32)

	// FrameBounds points the camera at the center of the box [min, max] and backs off until
	// the whole box fits the vertical field of view. The radius bounds widen when needed.
	//
	// Parameters:
	//   - min: the box minimum corner
	//   - max: the box maximum corner
	FrameBounds(min, max mgl32.Vec3)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Frustum returns the planes of the current view volume.
	//
	// Returns:
	//   - common.Frustum: the view frustum
	Frustum() common.Frustum

	// Project maps a world-space point to pixel coordinates on a viewport of the given size,
	// with the origin at the top-left corner.
	//
	// Parameters:
	//   - point: the world-space point
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	//
	// Returns:
	//   - mgl32.Vec2: the pixel position
	//   - bool: false if the point is behind the eye or outside the depth range
	Project(point mgl32.Vec3, width, height int) (mgl32.Vec2, bool)
}

var _ Camera = &cameraImpl{}

// NewCamera creates an orbit camera looking at the origin from the +X side, slightly above.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu: &sync.Mutex{},

		radius:    100.0,
		azimuth:   0.0,
		elevation: float32(math.Pi / 12),

		minRadius:    1.0,
		maxRadius:    4096.0,
		minElevation: float32(-math.Pi/2 + 0.05),
		maxElevation: float32(math.Pi/2 - 0.05),

		orbitSpeed: 0.03,
		zoomSpeed:  5.0,

		fov:    mgl32.DegToRad(65),
		aspect: 4.0 / 3.0,
		near:   1.0,
		far:    8192.0,
	}
	for _, option := range options {
		option(c)
	}
	c.radius = common.Clamp(c.radius, c.minRadius, c.maxRadius)
	c.elevation = common.Clamp(c.elevation, c.minElevation, c.maxElevation)
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *cameraImpl) SetRadius(radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(radius, c.minRadius, c.maxRadius)
	c.updateMatrices()
}

func (c *cameraImpl) Azimuth() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.azimuth
}

func (c *cameraImpl) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

func (c *cameraImpl) Orbit(horizontal, vertical float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth = float32(math.Remainder(float64(c.azimuth+horizontal*c.orbitSpeed), 2*math.Pi))
	c.elevation = common.Clamp(c.elevation+vertical*c.orbitSpeed, c.minElevation, c.maxElevation)
	c.updateMatrices()
}

func (c *cameraImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = common.Clamp(c.radius-delta*c.zoomSpeed, c.minRadius, c.maxRadius)
	c.updateMatrices()
}

func (c *cameraImpl) FrameBounds(min, max mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.target = min.Add(max).Mul(0.5)
	halfDiagonal := max.Sub(min).Len() * 0.5
	if halfDiagonal <= 0 {
		halfDiagonal = 1
	}
	radius := halfDiagonal / float32(math.Sin(float64(c.fov)/2))
	c.maxRadius = float32(math.Max(float64(c.maxRadius), float64(radius*4)))
	c.minRadius = float32(math.Min(float64(c.minRadius), float64(radius/4)))
	c.far = float32(math.Max(float64(c.far), float64(radius*8)))
	c.radius = radius
	c.updateMatrices()
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustumFromMatrix(c.viewProjectionMatrix)
}

func (c *cameraImpl) Project(point mgl32.Vec3, width, height int) (mgl32.Vec2, bool) {
	c.mu.Lock()
	clip := c.viewProjectionMatrix.Mul4x1(point.Vec4(1))
	c.mu.Unlock()

	if clip[3] <= 1e-6 {
		return mgl32.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	screen := mgl32.Vec2{
		(ndc[0] + 1) * 0.5 * float32(width),
		(1 - ndc[1]) * 0.5 * float32(height),
	}
	return screen, ndc[2] >= -1 && ndc[2] <= 1
}

// updateMatrices recomputes the eye position from spherical coordinates and rebuilds the
// view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	cosElev := float32(math.Cos(float64(c.elevation)))
	sinElev := float32(math.Sin(float64(c.elevation)))
	cosAzim := float32(math.Cos(float64(c.azimuth)))
	sinAzim := float32(math.Sin(float64(c.azimuth)))

	c.position = c.target.Add(mgl32.Vec3{
		c.radius * cosElev * cosAzim,
		c.radius * cosElev * sinAzim,
		c.radius * sinElev,
	})

	c.viewMatrix = mgl32.LookAtV(c.position, c.target, WorldUp)
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
