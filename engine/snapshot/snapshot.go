package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
	"github.com/Carmen-Shannon/oxy-mdl/engine/camera"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// renderer implements the Renderer interface.
type renderer struct {
	width, height int
	supersample   int

	azimuth, elevation float32
	camera             camera.Camera

	lineWidth  float32
	jointSize  float32
	drawBounds bool

	background  color.Color
	boneColor   color.Color
	jointColor  color.Color
	boundsColor color.Color
}

// Renderer draws a posed skeleton into an image and encodes it as WebP.
//
// Bones are drawn as lines from each parent joint to its child joint, joints as small squares
// and, when enabled, the sequence bounding box as a wire cube. Drawing happens at a multiple of
// the output size and is scaled down to smooth the edges.
type Renderer interface {
	// Render draws the pose described by transforms for model.
	//
	// Parameters:
	//   - model: the model the transforms belong to
	//   - transforms: absolute bone transforms, one per bone
	//   - bbMin: the minimum corner of the box to frame and draw
	//   - bbMax: the maximum corner of the box to frame and draw
	//
	// Returns:
	//   - *image.NRGBA: the rendered image
	//   - error: an error if the transform count does not match the bone count
	Render(model studio.StudioModel, transforms []mgl32.Mat4, bbMin, bbMax mgl32.Vec3) (*image.NRGBA, error)

	// Capture poses session at the given sequence and frame and renders it.
	// The pose is evaluated with a zero-length tick, so events keyed to that frame are
	// dispatched. The session's sequence and frame are left at the captured position.
	//
	// Parameters:
	//   - session: the session to pose
	//   - sequence: the sequence index
	//   - frame: the frame cursor within the sequence
	//
	// Returns:
	//   - *image.NRGBA: the rendered image
	//   - error: a *studio.DomainError for an invalid sequence or frame
	Capture(session animation.Session, sequence int, frame float32) (*image.NRGBA, error)

	// Encode writes img to w as lossless WebP.
	//
	// Parameters:
	//   - w: the destination writer
	//   - img: the image to encode
	//
	// Returns:
	//   - error: an error if encoding fails
	Encode(w io.Writer, img image.Image) error

	// WriteFile encodes img as WebP into path, creating parent directories as needed.
	//
	// Parameters:
	//   - path: the destination file path
	//   - img: the image to encode
	//
	// Returns:
	//   - error: an error if the file cannot be written
	WriteFile(path string, img image.Image) error
}

var _ Renderer = &renderer{}

// NewRenderer creates a snapshot Renderer.
//
// Parameters:
//   - options: functional options for size, colors and view angles
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		width:       512,
		height:      512,
		supersample: 2,
		azimuth:     float32(math.Pi / 4),
		elevation:   float32(math.Pi / 12),
		lineWidth:   2,
		jointSize:   3,
		drawBounds:  true,
		background:  color.NRGBA{R: 24, G: 24, B: 28, A: 255},
		boneColor:   color.NRGBA{R: 230, G: 200, B: 80, A: 255},
		jointColor:  color.NRGBA{R: 240, G: 90, B: 60, A: 255},
		boundsColor: color.NRGBA{R: 90, G: 140, B: 220, A: 255},
	}
	for _, opt := range options {
		opt(r)
	}
	r.width = max(r.width, 1)
	r.height = max(r.height, 1)
	r.supersample = max(r.supersample, 1)
	return r
}

func (r *renderer) Render(model studio.StudioModel, transforms []mgl32.Mat4, bbMin, bbMax mgl32.Vec3) (*image.NRGBA, error) {
	if len(transforms) != len(model.Bones()) {
		return nil, fmt.Errorf("snapshot: got %d transforms for %d bones", len(transforms), len(model.Bones()))
	}

	cam := r.camera
	if cam == nil {
		cam = camera.NewCamera(
			camera.WithAspect(float32(r.width)/float32(r.height)),
			camera.WithAngles(r.azimuth, r.elevation),
		)
		cam.FrameBounds(bbMin, bbMax)
	}

	w, h := r.width*r.supersample, r.height*r.supersample
	scale := float32(r.supersample)
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	p := &painter{dst: canvas, z: vector.NewRasterizer(w, h)}

	if r.drawBounds {
		corners := common.BoxCorners(bbMin, bbMax)
		for _, e := range common.BoxEdges {
			a, okA := cam.Project(corners[e[0]], w, h)
			b, okB := cam.Project(corners[e[1]], w, h)
			if okA && okB {
				p.line(a, b, r.lineWidth*0.5*scale, r.boundsColor)
			}
		}
	}

	joints := make([]mgl32.Vec2, len(transforms))
	visible := make([]bool, len(transforms))
	for i, m := range transforms {
		joints[i], visible[i] = cam.Project(m.Col(3).Vec3(), w, h)
	}

	for _, seg := range model.BoneSegments() {
		if visible[seg.Parent] && visible[seg.Child] {
			p.line(joints[seg.Parent], joints[seg.Child], r.lineWidth*scale, r.boneColor)
		}
	}
	for i := range joints {
		if visible[i] {
			p.square(joints[i], r.jointSize*scale, r.jointColor)
		}
	}

	if r.supersample == 1 {
		return canvas, nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	draw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return out, nil
}

func (r *renderer) Capture(session animation.Session, sequence int, frame float32) (*image.NRGBA, error) {
	if err := session.SetSequence(sequence); err != nil {
		return nil, err
	}
	if err := session.SetFrame(frame); err != nil {
		return nil, err
	}
	transforms := session.Tick(0)

	seq := session.Sequence()
	return r.Render(session.Model(), transforms, seq.BBMin, seq.BBMax)
}

func (r *renderer) Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("snapshot: WebP encode: %w", err)
	}
	return nil
}

func (r *renderer) WriteFile(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := r.Encode(f, img); err != nil {
		return err
	}
	log.Printf("[Snapshot] wrote %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
