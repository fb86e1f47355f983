package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Float32Epsilon is the float32 machine epsilon, the gap between 1 and the next float32.
const Float32Epsilon float32 = 1.1920929e-07

// Clamp restricts value to the inclusive range [lo, hi].
//
// Parameters:
//   - value: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(value, lo, hi float32) float32 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Lerp linearly interpolates between a and b: a*(1-t) + b*t.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - float32: the interpolated value
func Lerp(a, b, t float32) float32 {
	return (1-t)*a + t*b
}

// LerpVec3 linearly interpolates two vectors component-wise: a*(1-t) + b*t.
//
// Parameters:
//   - a: the vector at t = 0
//   - b: the vector at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Slerp spherically interpolates between two unit quaternions along the shortest arc.
// Nearly parallel inputs, including equal ones, are mixed linearly and renormalized.
//
// Parameters:
//   - a: the rotation at t = 0
//   - b: the rotation at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Quat: the interpolated rotation
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	return mgl32.QuatSlerp(a, b, t)
}

// QuatFromEuler builds a quaternion from Euler angles in radians, where x, y and z are
// the rotations about the respective axes. The composition matches the studio model
// format's angle-to-quaternion conversion (roll about X, pitch about Y, yaw about Z).
//
// Parameters:
//   - angles: the Euler angles (x, y, z) in radians
//
// Returns:
//   - mgl32.Quat: the resulting unit quaternion
func QuatFromEuler(angles mgl32.Vec3) mgl32.Quat {
	cx, sx := cosSinHalf(angles[0])
	cy, sy := cosSinHalf(angles[1])
	cz, sz := cosSinHalf(angles[2])

	return mgl32.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl32.Vec3{
			sx*cy*cz - cx*sy*sz,
			cx*sy*cz + sx*cy*sz,
			cx*cy*sz - sx*sy*cz,
		},
	}
}

// EulerAngles decomposes a unit quaternion into Euler angles (x, y, z) in radians.
// It is the inverse of QuatFromEuler away from the gimbal singularity at y = ±π/2.
//
// Parameters:
//   - q: the quaternion to decompose
//
// Returns:
//   - mgl32.Vec3: the Euler angles (x, y, z) in radians
func EulerAngles(q mgl32.Quat) mgl32.Vec3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W

	var pitch float32
	py := 2 * (y*z + w*x)
	px := w*w - x*x - y*y + z*z
	if absf(px) < Float32Epsilon && absf(py) < Float32Epsilon {
		pitch = 2 * float32(math.Atan2(float64(x), float64(w)))
	} else {
		pitch = float32(math.Atan2(float64(py), float64(px)))
	}

	yaw := float32(math.Asin(float64(Clamp(-2*(x*z-w*y), -1, 1))))

	var roll float32
	ry := 2 * (x*y + w*z)
	rx := w*w + x*x - y*y - z*z
	if !(absf(rx) < Float32Epsilon && absf(ry) < Float32Epsilon) {
		roll = float32(math.Atan2(float64(ry), float64(rx)))
	}

	return mgl32.Vec3{pitch, yaw, roll}
}

// ComposeTransform builds a 4x4 column-major transform from a rotation and a translation.
// The upper 3x3 block holds the rotation and column 3 holds the translation.
//
// Parameters:
//   - rotation: the orientation
//   - position: the translation
//
// Returns:
//   - mgl32.Mat4: the composed transform
func ComposeTransform(rotation mgl32.Quat, position mgl32.Vec3) mgl32.Mat4 {
	m := rotation.Mat4()
	m[12], m[13], m[14] = position[0], position[1], position[2]
	return m
}

func cosSinHalf(angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle) * 0.5)
	return float32(c), float32(s)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
