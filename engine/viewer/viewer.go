package viewer

import (
	"errors"
	"image/color"
	"log"
	"strings"

	"github.com/Carmen-Shannon/oxy-mdl/engine"
	"github.com/Carmen-Shannon/oxy-mdl/common"
	"github.com/Carmen-Shannon/oxy-mdl/engine/animation"
	"github.com/Carmen-Shannon/oxy-mdl/engine/camera"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/Carmen-Shannon/oxy-mdl/engine/viewer/controls"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// viewer implements the Viewer interface and ebiten.Game.
type viewer struct {
	engine   engine.Engine
	camera   camera.Camera
	controls *controls.Controls
	segments []studio.BoneSegment

	title         string
	width, height int
	showHelp      bool
	showBounds    bool

	background  color.Color
	boneColor   color.Color
	jointColor  color.Color
	boundsColor color.Color

	// Copied from the session on every Update so Draw never touches it.
	joints   []mgl32.Vec3
	snapshot animation.Snapshot
	framed   bool
}

// Viewer is a desktop window showing the posed skeleton of an engine's session.
//
// The engine keeps ticking the session on its own goroutine. Every frame the viewer applies
// keyboard actions and copies the pose through Engine.Submit, then draws the bones, joints,
// the sequence bounding box and a text overlay.
type Viewer interface {
	// Run opens the window, starts the engine and blocks until the window closes.
	// The engine is stopped before Run returns.
	//
	// Returns:
	//   - error: an error if the window fails
	Run() error

	// Camera returns the camera the viewer draws through.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Controls returns the selection state the key bindings act on.
	//
	// Returns:
	//   - *controls.Controls: the controls
	Controls() *controls.Controls
}

var _ Viewer = &viewer{}
var _ ebiten.Game = &viewer{}

// NewViewer creates a Viewer for e. Panics if e is nil.
//
// Parameters:
//   - e: the engine playing the session to show
//   - options: functional options for the window and colors
//
// Returns:
//   - Viewer: the new viewer
func NewViewer(e engine.Engine, options ...ViewerBuilderOption) Viewer {
	if e == nil {
		panic("viewer: NewViewer requires an engine")
	}

	v := &viewer{
		engine:      e,
		controls:    controls.New(),
		segments:    e.Session().Model().BoneSegments(),
		title:       "oxy-mdl",
		width:       1024,
		height:      768,
		showHelp:    true,
		showBounds:  true,
		background:  color.NRGBA{R: 40, G: 40, B: 48, A: 255},
		boneColor:   color.NRGBA{R: 230, G: 200, B: 80, A: 255},
		jointColor:  color.NRGBA{R: 240, G: 90, B: 60, A: 255},
		boundsColor: color.NRGBA{R: 90, G: 140, B: 220, A: 255},
	}
	for _, opt := range options {
		opt(v)
	}
	if v.camera == nil {
		v.camera = camera.NewCamera(camera.WithAspect(float32(v.width) / float32(v.height)))
	}
	return v
}

func (v *viewer) Camera() camera.Camera {
	return v.camera
}

func (v *viewer) Controls() *controls.Controls {
	return v.controls
}

func (v *viewer) Run() error {
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	v.engine.Start()
	defer func() {
		v.engine.Quit()
		v.engine.Wait()
	}()

	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	v.updateCamera()

	actions := pressedActions()
	err := v.engine.Submit(func(s animation.Session) {
		for _, a := range actions {
			if err := v.controls.Apply(a, s); err != nil {
				log.Printf("[Viewer] %v", err)
			}
		}
		transforms := s.Transforms()
		if len(v.joints) != len(transforms) {
			v.joints = make([]mgl32.Vec3, len(transforms))
		}
		for i, m := range transforms {
			v.joints[i] = m.Col(3).Vec3()
		}
		v.snapshot = s.Snapshot()
	})
	if errors.Is(err, engine.ErrEngineStopped) {
		return ebiten.Termination
	}

	if !v.framed || inpututil.IsKeyJustPressed(ebiten.KeyF) {
		v.camera.FrameBounds(v.snapshot.BBMin, v.snapshot.BBMax)
		v.framed = true
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.background)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	if v.showBounds {
		corners := common.BoxCorners(v.snapshot.BBMin, v.snapshot.BBMax)
		for _, e := range common.BoxEdges {
			a, okA := v.camera.Project(corners[e[0]], w, h)
			b, okB := v.camera.Project(corners[e[1]], w, h)
			if okA && okB {
				vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 1, v.boundsColor, true)
			}
		}
	}

	projected := make([]mgl32.Vec2, len(v.joints))
	visible := make([]bool, len(v.joints))
	for i, p := range v.joints {
		projected[i], visible[i] = v.camera.Project(p, w, h)
	}
	for _, seg := range v.segments {
		if seg.Parent >= len(projected) || seg.Child >= len(projected) {
			continue
		}
		if visible[seg.Parent] && visible[seg.Child] {
			a, b := projected[seg.Parent], projected[seg.Child]
			vector.StrokeLine(screen, a[0], a[1], b[0], b[1], 2, v.boneColor, true)
		}
	}
	for i, p := range projected {
		if visible[i] {
			vector.DrawFilledRect(screen, p[0]-2, p[1]-2, 4, 4, v.jointColor, true)
		}
	}

	ebitenutil.DebugPrint(screen, strings.Join(v.controls.Overlay(v.snapshot), "\n"))
	if v.showHelp {
		ebitenutil.DebugPrintAt(screen, controls.Help, 4, h-6*16-4)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		v.camera.SetAspect(float32(outsideWidth) / float32(max(outsideHeight, 1)))
	}
	return outsideWidth, outsideHeight
}

// updateCamera orbits with the arrow keys while held and zooms with the mouse wheel.
func (v *viewer) updateCamera() {
	var horizontal, vertical float32
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		horizontal--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		horizontal++
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageUp) {
		vertical++
	}
	if ebiten.IsKeyPressed(ebiten.KeyPageDown) {
		vertical--
	}
	if horizontal != 0 || vertical != 0 {
		v.camera.Orbit(horizontal, vertical)
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.camera.Zoom(float32(dy))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.showHelp = !v.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		v.showBounds = !v.showBounds
	}
}

// pressedActions returns the actions whose keys went down this frame, in binding order.
func pressedActions() []controls.Action {
	var actions []controls.Action
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			actions = append(actions, b.action)
		}
	}
	return actions
}
