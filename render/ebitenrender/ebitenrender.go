// Package ebitenrender draws the scene into an Ebiten window using the main camera
// and the assembled post-process chain.
package ebitenrender

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/ecs/debugui"
	"github.com/plus3/seascene/input"
	"github.com/plus3/seascene/render"
	"go.uber.org/zap"
)

// Keys maps keyboard keys to input actions.
var Keys = map[ebiten.Key]input.Action{
	ebiten.KeyA:          input.ActionLeft,
	ebiten.KeyArrowLeft:  input.ActionLeft,
	ebiten.KeyD:          input.ActionRight,
	ebiten.KeyArrowRight: input.ActionRight,
	ebiten.KeyW:          input.ActionForward,
	ebiten.KeyArrowUp:    input.ActionForward,
	ebiten.KeyS:          input.ActionBack,
	ebiten.KeyArrowDown:  input.ActionBack,
	ebiten.KeySpace:      input.ActionJump,
	ebiten.KeyEscape:     input.ActionQuit,
	ebiten.KeyQ:          input.ActionQuit,
}

// Renderer is an ecs.System. Execute samples input and snapshots the frame during
// Update, Draw rasterizes the latest snapshot.
type Renderer struct {
	Input      ecs.Singleton[input.State]
	ImguiInput ecs.Singleton[debugui.ImguiInputState]

	pipeline *render.Pipeline
	frame    *render.Frame
	log      *zap.Logger
	// pressed reports key state; replaced in tests.
	pressed func(ebiten.Key) bool
}

func New(p *render.Pipeline, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		pipeline: p,
		log:      log,
		pressed:  ebiten.IsKeyPressed,
	}
}

func (r *Renderer) Execute(frame *ecs.UpdateFrame) error {
	state := r.Input.Get()
	if state == nil {
		state = ecs.NewSingleton[input.State](frame.Registry).Get()
	}
	state.Reset()
	if imgui := r.ImguiInput.Get(); imgui != nil && imgui.WantCaptureKeyboard {
		state.Captured = true
	} else {
		for key, action := range Keys {
			if r.pressed(key) {
				state.Press(action)
			}
		}
	}

	r.frame = render.BuildFrame(frame.Registry, r.pipeline)
	return nil
}

// Frame returns the last snapshot, or nil before the first tick.
func (r *Renderer) Frame() *render.Frame {
	return r.frame
}

// Draw rasterizes the last snapshot onto screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(r.pipeline.RenderTarget.ClearColor)
	f := r.frame
	if f == nil {
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	cam := ecs.MustGet[*ecs.Camera](r.pipeline.Camera)

	for _, d := range f.Drawables {
		fog := float32(0)
		if cam.Far > 0 {
			fog = d.Distance / cam.Far
		}
		c := f.Effects.Shade(baseColor(d), fog)

		if d.Mesh.Shape == ecs.ShapeDome {
			screen.Fill(c)
			continue
		}

		rect, ok := ScreenRect(d, f, w, h)
		if !ok {
			continue
		}
		switch d.Mesh.Shape {
		case ecs.ShapeModel:
			cx, cy := rect.Center()
			radius := min(rect.W(), rect.H()) / 2
			vector.DrawFilledCircle(screen, cx, cy, radius, c, f.Effects.Smooth)
		default:
			vector.DrawFilledRect(screen, rect.X0, rect.Y0, rect.W(), rect.H(), c, f.Effects.Smooth)
		}
	}
}

// Rect is an axis-aligned screen rectangle in pixels.
type Rect struct {
	X0, Y0, X1, Y1 float32
}

func (r Rect) W() float32 { return r.X1 - r.X0 }
func (r Rect) H() float32 { return r.Y1 - r.Y0 }

func (r Rect) Center() (float32, float32) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

// ScreenRect projects the corners of a drawable's scaled extent and returns their
// bounding rectangle clipped to the surface. Corners behind the camera are ignored;
// ok is false when nothing is visible.
func ScreenRect(d render.Drawable, f *render.Frame, width, height int) (Rect, bool) {
	half := d.Mesh.Extent.Mul(0.5)
	rect := Rect{X0: float32(width), Y0: float32(height)}
	seen := false
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{sign(i&1) * half[0], sign(i&2) * half[1], sign(i&4) * half[2]}
		world := d.Model.Mul4x1(corner.Vec4(1)).Vec3()
		x, y, _, ok := render.Project(world, f.View, f.Projection, width, height)
		if !ok {
			continue
		}
		seen = true
		rect.X0, rect.Y0 = min(rect.X0, x), min(rect.Y0, y)
		rect.X1, rect.Y1 = max(rect.X1, x), max(rect.Y1, y)
	}
	if !seen {
		return Rect{}, false
	}

	rect.X0, rect.Y0 = max(rect.X0, 0), max(rect.Y0, 0)
	rect.X1, rect.Y1 = min(rect.X1, float32(width)), min(rect.Y1, float32(height))
	if rect.W() <= 0 || rect.H() <= 0 {
		return Rect{}, false
	}
	return rect, true
}

func sign(bit int) float32 {
	if bit == 0 {
		return -1
	}
	return 1
}

func baseColor(d render.Drawable) color.RGBA {
	if d.Material.Tint.A != 0 {
		return d.Material.Tint
	}
	return d.Mesh.Color
}
