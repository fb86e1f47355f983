package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n.p + d = 0
// where n is the unit normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the distance from the plane to p, positive on the normal's side.
//
// Parameters:
//   - p: the point to measure
//
// Returns:
//   - float32: the signed distance
func (pl Plane) SignedDistance(p mgl32.Vec3) float32 {
	return pl.Normal.Dot(p) + pl.Distance
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix
// using the Gribb/Hartmann method. The clip volume is the OpenGL one (z in [-w, w]),
// matching mgl32.Perspective.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)

	var f Frustum
	f.setPlane(FrustumLeft, r3.Add(r0))
	f.setPlane(FrustumRight, r3.Sub(r0))
	f.setPlane(FrustumBottom, r3.Add(r1))
	f.setPlane(FrustumTop, r3.Sub(r1))
	f.setPlane(FrustumNear, r3.Add(r2))
	f.setPlane(FrustumFar, r3.Sub(r2))
	return f
}

// ContainsPoint reports whether p is inside or on every plane.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if the point is inside the frustum
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether the axis-aligned box [min, max] is at least partly inside the
// frustum. It tests the box corner furthest along each plane normal, so it may report boxes
// near frustum corners as visible when they are not.
//
// Parameters:
//   - min: the box minimum corner
//   - max: the box maximum corner
//
// Returns:
//   - bool: false only if the box is entirely outside one plane
func (f Frustum) IntersectsBox(min, max mgl32.Vec3) bool {
	for _, pl := range f.Planes {
		var p mgl32.Vec3
		for i := range 3 {
			if pl.Normal[i] >= 0 {
				p[i] = max[i]
			} else {
				p[i] = min[i]
			}
		}
		if pl.SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// setPlane stores a plane from its row combination, normalized so the normal has unit length.
func (f *Frustum) setPlane(index int, row mgl32.Vec4) {
	p := &f.Planes[index]
	p.Normal = row.Vec3()
	p.Distance = row[3]

	if length := p.Normal.Len(); length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}
