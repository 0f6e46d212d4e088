package physics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	params := physics.Params{Gravity: -10, WaterLevel: 0}

	t.Run("free fall", func(t *testing.T) {
		tr := ecs.NewTransform(mgl32.Vec3{0, 10, 0})
		rb := &ecs.RigidBody{Mass: 5}

		resting := physics.Step(tr, rb, params, 0.1)
		assert.False(t, resting)
		assert.InDelta(t, -1, rb.Velocity.Y(), 1e-5)
		assert.InDelta(t, 9.9, tr.Position.Y(), 1e-5, "velocity is updated before position")
	})

	t.Run("lands on the water", func(t *testing.T) {
		tr := ecs.NewTransform(mgl32.Vec3{0, 0.2, 0})
		rb := &ecs.RigidBody{Mass: 5, Velocity: mgl32.Vec3{1, -5, 0}, Extent: mgl32.Vec3{1, 1, 1}}

		resting := physics.Step(tr, rb, params, 0.1)
		assert.True(t, resting)
		assert.InDelta(t, 0.5, tr.Position.Y(), 1e-5)
		assert.Zero(t, rb.Velocity.Y())
		assert.InDelta(t, 0.1, tr.Position.X(), 1e-5, "horizontal motion continues")
	})

	t.Run("damping", func(t *testing.T) {
		tr := ecs.NewTransform(mgl32.Vec3{0, 100, 0})
		rb := &ecs.RigidBody{Mass: 1, Velocity: mgl32.Vec3{10, 0, 0}}
		physics.Step(tr, rb, physics.Params{Damping: 0.5}, 1)
		assert.InDelta(t, 5, rb.Velocity.X(), 1e-5)

		physics.Step(tr, rb, physics.Params{Damping: 5}, 1)
		assert.Zero(t, rb.Velocity.X(), "damping never reverses velocity")
	})

	t.Run("kinematic ignores gravity and floor", func(t *testing.T) {
		tr := ecs.NewTransform(mgl32.Vec3{0, 0, 0})
		rb := &ecs.RigidBody{Kinematic: true, Velocity: mgl32.Vec3{0, -1, 0}}
		assert.False(t, physics.Step(tr, rb, params, 1))
		assert.Equal(t, mgl32.Vec3{0, -1, 0}, tr.Position)
		assert.Equal(t, mgl32.Vec3{0, -1, 0}, rb.Velocity)
	})

	t.Run("massless bodies are static", func(t *testing.T) {
		tr := ecs.NewTransform(mgl32.Vec3{0, 5, 0})
		rb := &ecs.RigidBody{}
		physics.Step(tr, rb, params, 1)
		assert.Equal(t, mgl32.Vec3{0, 5, 0}, tr.Position)
	})
}

func TestSystem(t *testing.T) {
	r := ecs.NewRegistry()
	box, err := ecs.Declare("box", nil, ecs.NewTransform(mgl32.Vec3{0, 1, 0}), &ecs.RigidBody{Mass: 5, Extent: mgl32.Vec3{1, 1, 1}})
	require.NoError(t, err)
	crate, err := ecs.Declare("crate", nil, ecs.NewTransform(mgl32.Vec3{0, 50, 0}), &ecs.RigidBody{Mass: 55})
	require.NoError(t, err)
	static, err := ecs.Declare("sky", nil, ecs.NewTransform(mgl32.Vec3{0, 50, 0}))
	require.NoError(t, err)
	r.Add(box)
	r.Add(crate)
	r.Add(static)

	scheduler := ecs.NewScheduler(r)
	sys := physics.New(physics.Params{Gravity: -9.81, Damping: 0.1}, nil)
	scheduler.Register(sys)

	for i := 0; i < 60; i++ {
		require.NoError(t, scheduler.Once(1.0/60))
	}

	assert.InDelta(t, 0.5, ecs.MustGet[*ecs.Transform](box).Position.Y(), 1e-5)
	assert.Less(t, ecs.MustGet[*ecs.Transform](crate).Position.Y(), float32(50))
	assert.Equal(t, float32(50), ecs.MustGet[*ecs.Transform](static).Position.Y())
	assert.Equal(t, 1, sys.Resting())
	assert.Greater(t, sys.KineticEnergy(), float32(0))

	assert.True(t, physics.Impulse(box, mgl32.Vec3{10, 0, 0}))
	assert.InDelta(t, 2, ecs.MustGet[*ecs.RigidBody](box).Velocity.X(), 1e-5)
	assert.False(t, physics.Impulse(static, mgl32.Vec3{1, 0, 0}))
}

func TestZeroDeltaIsNoop(t *testing.T) {
	r := ecs.NewRegistry()
	box, err := ecs.Declare("box", nil, ecs.NewTransform(mgl32.Vec3{0, 3, 0}), &ecs.RigidBody{Mass: 1})
	require.NoError(t, err)
	r.Add(box)

	scheduler := ecs.NewScheduler(r)
	scheduler.Register(physics.New(physics.Params{Gravity: -10}, nil))
	require.NoError(t, scheduler.Once(0))
	assert.Equal(t, mgl32.Vec3{0, 3, 0}, ecs.MustGet[*ecs.Transform](box).Position)
}
