package ecs_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryStats(t *testing.T) {
	r := ecs.NewRegistry()
	scheduler := ecs.NewScheduler(r)

	r.Add(scripted("camera", &ecs.BaseBehavior{}, "MainCamera"))
	r.Add(scripted("sky", &ecs.BaseBehavior{}))
	boat := mustDeclare("boat", []string{"objectToBeFollowed"}, ecs.NewTransform(mgl32.Vec3{}), &ecs.RigidBody{Mass: 1})
	r.Add(boat)
	r.Add(mustDeclare("follower", []string{"Follower"}, ecs.NewTransform(mgl32.Vec3{})))

	scheduler.Commands().Remove(boat.Id())
	require.NoError(t, scheduler.Once(0))

	stats := r.Stats()
	assert.Equal(t, 3, stats.EntityCount)
	assert.Equal(t, 1, stats.RemovedCount)
	assert.Equal(t, 2, stats.ScriptCount)
	assert.Equal(t, 3, stats.RoleCounts[ecs.RoleTransform])
	assert.Equal(t, 0, stats.RoleCounts[ecs.RoleRigidBody])
	assert.Equal(t, []string{"Follower", "MainCamera"}, stats.SortedTags())
	assert.Equal(t, 2, stats.SignatureCount[ecs.SignatureOf(ecs.RoleTransform, ecs.RoleScript)])
}

type inputState struct {
	Nudge mgl32.Vec3
}

type nudgeSystem struct {
	Input ecs.Singleton[inputState]
	seen  mgl32.Vec3
}

func (s *nudgeSystem) Execute(*ecs.UpdateFrame) error {
	if in := s.Input.Get(); in != nil {
		s.seen = in.Nudge
	}
	return nil
}

func TestSingleton(t *testing.T) {
	t.Run("shared between accessors", func(t *testing.T) {
		r := ecs.NewRegistry()
		first := ecs.NewSingleton(r, inputState{Nudge: mgl32.Vec3{1, 0, 0}})
		second := ecs.NewSingleton[inputState](r)
		assert.Same(t, first.Get(), second.Get())

		second.Get().Nudge = mgl32.Vec3{0, 2, 0}
		assert.Equal(t, mgl32.Vec3{0, 2, 0}, first.Get().Nudge)
	})

	t.Run("system field is bound on register", func(t *testing.T) {
		r := ecs.NewRegistry()
		scheduler := ecs.NewScheduler(r)
		sys := &nudgeSystem{}
		scheduler.Register(sys)
		assert.False(t, sys.Input.Exists())

		ecs.NewSingleton(r, inputState{Nudge: mgl32.Vec3{0, 0, 3}})
		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, mgl32.Vec3{0, 0, 3}, sys.seen)
	})

	t.Run("read singleton", func(t *testing.T) {
		r := ecs.NewRegistry()
		var in *inputState
		assert.False(t, ecs.ReadSingleton(r, &in))
		assert.Nil(t, in)

		ecs.NewSingleton[inputState](r)
		assert.True(t, ecs.ReadSingleton(r, &in))
		assert.NotNil(t, in)
	})
}
