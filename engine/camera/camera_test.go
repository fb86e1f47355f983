package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultCameraLooksFromPositiveX(t *testing.T) {
	c := NewCamera(WithAngles(0, 0), WithRadius(50))

	if got := c.Position(); !got.ApproxEqualThreshold(mgl32.Vec3{50, 0, 0}, 1e-4) {
		t.Fatalf("position = %v, want {50 0 0}", got)
	}
	p, ok := c.Project(mgl32.Vec3{}, 640, 480)
	if !ok {
		t.Fatal("target should be visible")
	}
	if !p.ApproxEqualThreshold(mgl32.Vec2{320, 240}, 1e-3) {
		t.Errorf("target projects to %v, want viewport center", p)
	}
}

func TestProjectOrientation(t *testing.T) {
	c := NewCamera(WithAngles(0, 0), WithRadius(50), WithAspect(1))

	up, _ := c.Project(mgl32.Vec3{0, 0, 10}, 100, 100)
	if up[1] >= 50 {
		t.Errorf("point above target projects to y=%v, want above center", up[1])
	}
	// Looking down -X with Z up, +Y is on screen right.
	right, _ := c.Project(mgl32.Vec3{0, 10, 0}, 100, 100)
	if right[0] <= 50 {
		t.Errorf("+Y projects to x=%v, want right of center", right[0])
	}
	if _, ok := c.Project(mgl32.Vec3{100, 0, 0}, 100, 100); ok {
		t.Error("point behind the eye should not project")
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	c := NewCamera(WithSpeeds(0.5, 1))

	c.Orbit(0, 100)
	if e := c.Elevation(); e > math.Pi/2 {
		t.Errorf("elevation = %v, want clamped below pi/2", e)
	}
	c.Orbit(0, -200)
	if e := c.Elevation(); e < -math.Pi/2 {
		t.Errorf("elevation = %v, want clamped above -pi/2", e)
	}

	before := c.Azimuth()
	c.Orbit(1, 0)
	if d := c.Azimuth() - before; d < 0.49 || d > 0.51 {
		t.Errorf("azimuth moved by %v, want 0.5", d)
	}
}

func TestZoomClampsRadius(t *testing.T) {
	c := NewCamera(WithRadius(10), WithRadiusBounds(5, 20), WithSpeeds(0.1, 1))

	c.Zoom(100)
	if r := c.Radius(); r != 5 {
		t.Errorf("radius = %v, want 5", r)
	}
	c.Zoom(-100)
	if r := c.Radius(); r != 20 {
		t.Errorf("radius = %v, want 20", r)
	}
}

func TestFrameBoundsKeepsBoxInView(t *testing.T) {
	c := NewCamera(WithAspect(1))
	min, max := mgl32.Vec3{-500, -500, 0}, mgl32.Vec3{500, 500, 1000}

	c.FrameBounds(min, max)

	if got := c.Target(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, 500}, 1e-3) {
		t.Errorf("target = %v, want box center", got)
	}
	f := c.Frustum()
	for _, corner := range []mgl32.Vec3{min, max, {min[0], max[1], max[2]}, {max[0], min[1], min[2]}} {
		if !f.ContainsPoint(corner) {
			t.Errorf("corner %v is outside the framed view", corner)
		}
	}
}
