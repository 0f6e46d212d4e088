// Package tty draws a top-down view of the scene into a terminal with tcell.
package tty

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/input"
	"github.com/plus3/seascene/render"
	"go.uber.org/zap"
)

// cellAspect compensates for terminal cells being about twice as tall as wide.
const cellAspect = 2

// Renderer is an ecs.System that redraws the screen every tick.
type Renderer struct {
	Input ecs.Singleton[input.State]

	screen   tcell.Screen
	pipeline *render.Pipeline
	// Scale is world units per terminal column.
	Scale  float32
	events chan tcell.Event
	log    *zap.Logger
	frames uint64
}

type Option func(*Renderer)

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithScale sets world units per column.
func WithScale(scale float32) Option {
	return func(r *Renderer) {
		if scale > 0 {
			r.Scale = scale
		}
	}
}

// New binds an initialized screen to an assembled pipeline. The caller owns Init;
// Teardown calls Fini.
func New(screen tcell.Screen, p *render.Pipeline, opts ...Option) *Renderer {
	r := &Renderer{
		screen:   screen,
		pipeline: p,
		Scale:    1,
		events:   make(chan tcell.Event, 100),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Listen starts forwarding terminal events to the renderer. It returns when the
// screen is finalized.
func (r *Renderer) Listen() {
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				close(r.events)
				return
			}
			r.events <- ev
		}
	}()
}

// HandleEvent applies one terminal event to the input state.
func (r *Renderer) HandleEvent(ev tcell.Event, state *input.State) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		state.Press(actionFor(ev))
	case *tcell.EventResize:
		r.screen.Sync()
	}
}

func actionFor(ev *tcell.EventKey) input.Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.ActionQuit
	case tcell.KeyLeft:
		return input.ActionLeft
	case tcell.KeyRight:
		return input.ActionRight
	case tcell.KeyUp:
		return input.ActionForward
	case tcell.KeyDown:
		return input.ActionBack
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'h', 'a':
			return input.ActionLeft
		case 'l', 'd':
			return input.ActionRight
		case 'k', 'w':
			return input.ActionForward
		case 'j', 's':
			return input.ActionBack
		case ' ':
			return input.ActionJump
		case 'q':
			return input.ActionQuit
		}
	}
	return input.ActionNone
}

func (r *Renderer) Execute(frame *ecs.UpdateFrame) error {
	state := r.Input.Get()
	if state == nil {
		state = ecs.NewSingleton[input.State](frame.Registry).Get()
	}
	state.Reset()
drain:
	for {
		select {
		case ev, ok := <-r.events:
			if !ok {
				state.Quit = true
				break drain
			}
			r.HandleEvent(ev, state)
		default:
			break drain
		}
	}

	r.Draw(render.BuildFrame(frame.Registry, r.pipeline))
	r.frames++
	return nil
}

// Draw paints one frame. Drawables arrive farthest first so nearer ones overwrite.
func (r *Renderer) Draw(f *render.Frame) {
	w, h := r.screen.Size()
	cam := ecs.MustGet[*ecs.Camera](r.pipeline.Camera)
	center := cam.Target

	background := tcell.StyleDefault.Background(rgb(r.pipeline.RenderTarget.ClearColor))
	r.screen.Fill(' ', background)

	for _, d := range f.Drawables {
		fog := float32(0)
		if cam.Far > 0 {
			fog = d.Distance / cam.Far
		}
		c := f.Effects.Shade(tint(d), fog)

		if d.Mesh.Shape == ecs.ShapeDome {
			background = tcell.StyleDefault.Background(rgb(c))
			r.screen.Fill(' ', background)
			continue
		}

		extent := d.Mesh.Extent
		if t, ok := ecs.Get[*ecs.Transform](d.Entity); ok {
			extent = mgl32.Vec3{extent[0] * t.Scale[0], extent[1] * t.Scale[1], extent[2] * t.Scale[2]}
		}
		x0, y0 := CellFor(d.Center.Sub(extent.Mul(0.5)), center, r.Scale, w, h)
		x1, y1 := CellFor(d.Center.Add(extent.Mul(0.5)), center, r.Scale, w, h)

		style := background.Foreground(rgb(c))
		glyph := glyphFor(d.Mesh.Shape)
		for y := max(y0, 0); y <= min(y1, h-1); y++ {
			for x := max(x0, 0); x <= min(x1, w-1); x++ {
				r.screen.SetContent(x, y, glyph, nil, style)
			}
		}
	}
	r.screen.Show()
}

func (r *Renderer) Teardown() {
	r.log.Debug("terminal renderer closed", zap.Uint64("frames", r.frames))
	r.screen.Fini()
}

// CellFor maps a world position to a terminal cell, looking straight down the Y axis
// with center in the middle of a width×height grid. +Z is down the screen.
func CellFor(world, center mgl32.Vec3, scale float32, width, height int) (x, y int) {
	if scale <= 0 {
		scale = 1
	}
	dx := (world.X() - center.X()) / scale
	dz := (world.Z() - center.Z()) / scale / cellAspect
	return width/2 + round(dx), height/2 + round(dz)
}

func round(v float32) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func glyphFor(s ecs.Shape) rune {
	switch s {
	case ecs.ShapePlane:
		return '~'
	case ecs.ShapeModel:
		return '@'
	}
	return '#'
}

func tint(d render.Drawable) color.RGBA {
	if d.Material.Tint.A != 0 {
		return d.Material.Tint
	}
	return d.Mesh.Color
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
