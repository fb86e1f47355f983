package snapshot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio/studiotest"
	"github.com/go-gl/mathgl/mgl32"
)

var background = color.NRGBA{A: 255}

func standingModel(t *testing.T) studio.StudioModel {
	bones := studiotest.ChainBones(3, mgl32.Vec3{0, 0, 20})
	return studiotest.MustModel(t,
		studio.WithName("stick"),
		studio.WithBones(bones),
		studio.WithSequence(studiotest.Sequence("idle", 10, 4,
			studiotest.ConstantTrack(3, 4, mgl32.Vec3{0, 0, 20}, mgl32.QuatIdent()))),
	)
}

func countPainted(img *image.NRGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) != background {
				n++
			}
		}
	}
	return n
}

func TestRenderDrawsSkeleton(t *testing.T) {
	m := standingModel(t)
	r := NewRenderer(WithSize(64, 64), WithSupersample(1), WithBounds(false), WithColors(background, nil, nil, nil))

	transforms := []mgl32.Mat4{
		mgl32.Ident4(),
		mgl32.Translate3D(0, 0, 20),
		mgl32.Translate3D(0, 0, 40),
	}
	img, err := r.Render(m, transforms, mgl32.Vec3{-10, -10, 0}, mgl32.Vec3{10, 10, 40})
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(64, 64) {
		t.Fatalf("size = %v, want 64x64", got)
	}
	if img.NRGBAAt(0, 0) != background {
		t.Errorf("corner = %v, want background", img.NRGBAAt(0, 0))
	}
	if countPainted(img) == 0 {
		t.Error("no skeleton pixels were drawn")
	}
	// The chain is vertical and framed at the center, so the center column is painted.
	if img.NRGBAAt(32, 32) == background {
		t.Error("center pixel should lie on the bone chain")
	}
}

func TestRenderRejectsTransformMismatch(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(standingModel(t), []mgl32.Mat4{mgl32.Ident4()}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}); err == nil {
		t.Fatal("expected an error for one transform on a three-bone model")
	}
}

func TestSupersampledOutputSize(t *testing.T) {
	r := NewRenderer(WithSize(40, 30), WithSupersample(3))
	s := animation.NewSession(standingModel(t))

	img, err := r.Capture(s, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(40, 30) {
		t.Errorf("size = %v, want 40x30", got)
	}
	if s.Frame() != 1 {
		t.Errorf("frame = %v, want the captured frame", s.Frame())
	}
}

func TestCaptureRejectsBadIndices(t *testing.T) {
	r := NewRenderer(WithSize(16, 16))
	s := animation.NewSession(standingModel(t))

	var de *studio.DomainError
	if _, err := r.Capture(s, 5, 0); !errors.As(err, &de) {
		t.Errorf("sequence 5: err = %v, want DomainError", err)
	}
	if _, err := r.Capture(s, 0, 99); !errors.As(err, &de) {
		t.Errorf("frame 99: err = %v, want DomainError", err)
	}
}

func TestEncodeWritesWebP(t *testing.T) {
	r := NewRenderer(WithSize(16, 16))
	img, err := r.Capture(animation.NewSession(standingModel(t)), 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Fatalf("output does not start with a RIFF WEBP header: % x", data[:min(len(data), 12)])
	}

	path := filepath.Join(t.TempDir(), "out", "idle.webp")
	if err := r.WriteFile(path, img); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("stat %s: %v", path, err)
	}
}
