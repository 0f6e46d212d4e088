// Package physics integrates RigidBody descriptors against their Transforms each tick.
package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
	"go.uber.org/zap"
)

// Params are the world constants shared by every body.
type Params struct {
	// Gravity is the vertical acceleration in units/s², negative pulls down.
	Gravity float32
	// WaterLevel is the height bodies rest on. A body's lowest point is Position.Y - Extent.Y/2.
	WaterLevel float32
	// Damping is the fraction of velocity lost per second.
	Damping float32
}

// System moves every Transform+RigidBody pair with semi-implicit Euler integration.
// Kinematic bodies keep their velocity and ignore gravity; massless bodies never move.
type System struct {
	Bodies ecs.Query[struct {
		*ecs.Transform
		*ecs.RigidBody
	}]
	Params Params

	log     *zap.Logger
	resting int
}

// New creates a physics system. Register it with a Scheduler to bind its query.
func New(params Params, log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{Params: params, log: log.Named("physics")}
}

func (s *System) Execute(frame *ecs.UpdateFrame) error {
	dt := float32(frame.DeltaTime)
	if dt <= 0 {
		return nil
	}

	resting := 0
	for body := range s.Bodies.Values() {
		if Step(body.Transform, body.RigidBody, s.Params, dt) {
			resting++
		}
	}
	if resting != s.resting {
		s.log.Debug("resting bodies changed", zap.Int("resting", resting), zap.Uint64("tick", frame.Tick))
		s.resting = resting
	}
	return nil
}

// Resting returns how many bodies touched the water level on the last tick.
func (s *System) Resting() int {
	return s.resting
}

// Step advances one body by dt and reports whether it ended the step on the water.
func Step(t *ecs.Transform, rb *ecs.RigidBody, p Params, dt float32) bool {
	if rb.Mass <= 0 && !rb.Kinematic {
		return false
	}

	v := rb.Velocity
	if !rb.Kinematic {
		v[1] += p.Gravity * dt
		v = v.Mul(max(0, 1-p.Damping*dt))
	}
	pos := t.Position.Add(v.Mul(dt))

	floor := p.WaterLevel + rb.Extent.Y()/2
	resting := false
	if !rb.Kinematic && pos.Y() <= floor {
		pos[1] = floor
		if v.Y() < 0 {
			v[1] = 0
		}
		resting = true
	}

	t.Position = pos
	rb.Velocity = v
	return resting
}

// KineticEnergy sums ½mv² over non-kinematic bodies. Used by the headless report.
func (s *System) KineticEnergy() float32 {
	var total float32
	for body := range s.Bodies.Values() {
		rb := body.RigidBody
		if rb.Kinematic {
			continue
		}
		total += 0.5 * rb.Mass * rb.Velocity.Dot(rb.Velocity)
	}
	return total
}

var _ ecs.System = (*System)(nil)

// Impulse applies a one-off impulse to the body of e, if it has one.
func Impulse(e *ecs.Entity, impulse mgl32.Vec3) bool {
	rb, ok := ecs.Get[*ecs.RigidBody](e)
	if !ok {
		return false
	}
	rb.ApplyImpulse(impulse)
	return true
}
