package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSlerpEqualRotations(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 0, 1})
	for _, s := range []float32{0, 0.25, 0.5, 1} {
		got := Slerp(q, q, s)
		if !got.ApproxEqualThreshold(q, 1e-5) {
			t.Fatalf("Slerp(q, q, %v) = %v, want %v", s, got, q)
		}
	}
	if got := Slerp(mgl32.QuatIdent(), mgl32.QuatIdent(), 0.5); !got.ApproxEqualThreshold(mgl32.QuatIdent(), 1e-6) {
		t.Fatalf("Slerp(ident, ident) = %v", got)
	}
}

func TestSlerpTakesShortestArc(t *testing.T) {
	a := mgl32.QuatIdent()
	b := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})

	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 0, 1})
	if got := Slerp(a, b, 0.5); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("halfway = %v, want %v", got, want)
	}

	// -b is the same rotation; the midpoint must still be 45 degrees.
	got := Slerp(a, b.Scale(-1), 0.5)
	v := got.Rotate(mgl32.Vec3{1, 0, 0})
	if !v.ApproxEqualThreshold(want.Rotate(mgl32.Vec3{1, 0, 0}), 1e-5) {
		t.Fatalf("halfway to -b rotates X to %v", v)
	}
}

func TestEulerAnglesRoundTrip(t *testing.T) {
	angles := mgl32.Vec3{0.3, -0.4, 1.2}
	got := EulerAngles(QuatFromEuler(angles))
	if !got.ApproxEqualThreshold(angles, 1e-5) {
		t.Fatalf("EulerAngles = %v, want %v", got, angles)
	}
}

func TestEulerAnglesAtSingularity(t *testing.T) {
	// At y = π/2 the x and z terms vanish to float32 noise and x is recovered from w and x.
	q := QuatFromEuler(mgl32.Vec3{0, mgl32.DegToRad(90), 0})
	got := EulerAngles(q)
	for i, v := range got {
		if v != v {
			t.Fatalf("component %d is NaN: %v", i, got)
		}
	}
	if back := QuatFromEuler(got); !back.Rotate(mgl32.Vec3{1, 0, 0}).ApproxEqualThreshold(q.Rotate(mgl32.Vec3{1, 0, 0}), 1e-3) {
		t.Fatalf("rebuilt rotation %v differs from %v", back, q)
	}
}
