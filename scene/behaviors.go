package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/input"
)

// CameraFollow keeps its camera at Offset from the first entity tagged Target.Tag
// and aims it at that entity. It reads the target's current transform every tick,
// so it sees whatever earlier behaviors in registry order wrote during the tick.
type CameraFollow struct {
	ecs.BaseBehavior
	Target ecs.TagRef
	Offset mgl32.Vec3
	// Smoothing is the fraction of the remaining distance closed per second; 0 snaps.
	Smoothing float32
}

func (c *CameraFollow) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	target, ok := ecs.LookupByTag[*ecs.Transform](r, c.Target.Tag)
	if !ok {
		return nil
	}

	t := ecs.MustGet[*ecs.Transform](e)
	desired := target.Position.Add(c.Offset)
	if c.Smoothing <= 0 {
		t.Position = desired
	} else {
		alpha := min(c.Smoothing*float32(dt), 1)
		t.Position = t.Position.Add(desired.Sub(t.Position).Mul(alpha))
	}

	if cam, ok := ecs.Get[*ecs.Camera](e); ok {
		cam.Target = target.Position
	}
	return nil
}

// BoxBehavior pushes its rigid body with the keyboard.
type BoxBehavior struct {
	ecs.BaseBehavior
	// Force is the horizontal push per second at full input.
	Force float32
	// Jump is the upward impulse applied per jump press.
	Jump float32
}

func (b *BoxBehavior) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	var state *input.State
	if !ecs.ReadSingleton(r, &state) || !state.Active() {
		return nil
	}
	rb, ok := ecs.Get[*ecs.RigidBody](e)
	if !ok {
		return nil
	}

	rb.ApplyImpulse(state.Direction().Mul(b.Force * float32(dt)))
	if state.Jump {
		rb.ApplyImpulse(mgl32.Vec3{0, b.Jump, 0})
	}
	return nil
}

var (
	dayTint   = color.RGBA{135, 206, 235, 255}
	duskTint  = color.RGBA{250, 140, 80, 255}
	nightTint = color.RGBA{10, 14, 40, 255}
)

// SkyBehavior moves the sun through a day cycle and tints the sky dome to match.
// The material carries "elevation" in degrees and "azimuth" in degrees.
type SkyBehavior struct {
	ecs.BaseBehavior
	// Period is the length of a full day in seconds.
	Period float64
	// Start is the time of day in [0, 1) at OnInit. 0.25 is noon.
	Start   float64
	elapsed float64
}

func (s *SkyBehavior) OnInit(e *ecs.Entity, r *ecs.Registry) error {
	s.elapsed = s.Start * s.Period
	s.apply(e)
	return nil
}

func (s *SkyBehavior) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	s.elapsed += dt
	s.apply(e)
	return nil
}

// TimeOfDay returns the cycle position in [0, 1).
func (s *SkyBehavior) TimeOfDay() float64 {
	if s.Period <= 0 {
		return s.Start
	}
	return math.Mod(s.elapsed/s.Period, 1)
}

func (s *SkyBehavior) apply(e *ecs.Entity) {
	mf, ok := ecs.Get[*ecs.MeshFilter](e)
	if !ok {
		return
	}
	angle := 2 * math.Pi * s.TimeOfDay()
	elevation := float32(math.Sin(angle))
	mf.Material.SetParam("elevation", elevation*90)
	mf.Material.SetParam("azimuth", float32(math.Mod(angle*180/math.Pi+180, 360)))

	switch {
	case elevation >= 0.2:
		mf.Material.Tint = dayTint
	case elevation >= 0:
		mf.Material.Tint = lerpColor(duskTint, dayTint, elevation/0.2)
	default:
		mf.Material.Tint = lerpColor(duskTint, nightTint, min(-elevation/0.2, 1))
	}
}

// WaterBehavior advances the wave phase and bobs the surface around its starting height.
// The material carries the phase as "time".
type WaterBehavior struct {
	ecs.BaseBehavior
	// Speed is radians of phase per second.
	Speed     float32
	Amplitude float32
	phase     float32
	baseY     float32
}

func (w *WaterBehavior) OnInit(e *ecs.Entity, r *ecs.Registry) error {
	w.baseY = ecs.MustGet[*ecs.Transform](e).Position.Y()
	return nil
}

func (w *WaterBehavior) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	w.phase += w.Speed * float32(dt)
	if mf, ok := ecs.Get[*ecs.MeshFilter](e); ok {
		mf.Material.SetParam("time", w.phase)
	}
	t := ecs.MustGet[*ecs.Transform](e)
	t.Position[1] = w.baseY + w.Amplitude*float32(math.Sin(float64(w.phase)))
	return nil
}

// BoatFollow moves its entity toward the first entity tagged Target.Tag at Rate
// units per second without overshooting.
type BoatFollow struct {
	ecs.BaseBehavior
	Target ecs.TagRef
	Rate   float32
}

func (b *BoatFollow) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	target, ok := ecs.LookupByTag[*ecs.Transform](r, b.Target.Tag)
	if !ok {
		return nil
	}
	t := ecs.MustGet[*ecs.Transform](e)
	delta := target.Position.Sub(t.Position)
	dist := delta.Len()
	step := b.Rate * float32(dt)
	if dist <= step || dist == 0 {
		t.Position = target.Position
		return nil
	}
	t.Position = t.Position.Add(delta.Mul(step / dist))
	return nil
}

// Placeholder is a script that does nothing.
type Placeholder struct {
	ecs.BaseBehavior
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}
