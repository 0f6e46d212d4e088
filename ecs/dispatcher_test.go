package ecs_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/plus3/seascene/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newLoop(r *ecs.Registry, opts ...ecs.BehaviorOption) (*ecs.Scheduler, *ecs.BehaviorSystem) {
	behaviors := ecs.NewBehaviorSystem(r, opts...)
	scheduler := ecs.NewScheduler(r)
	scheduler.Register(behaviors)
	return scheduler, behaviors
}

func TestBehaviorLifecycle(t *testing.T) {
	t.Run("init once before any update", func(t *testing.T) {
		r := ecs.NewRegistry()
		a := newRecorder("a", nil)
		r.Add(scripted("a", a))
		scheduler, behaviors := newLoop(r)

		require.NoError(t, behaviors.Start())
		require.NoError(t, behaviors.Start())
		assert.Equal(t, 1, a.inits)
		assert.Equal(t, 0, a.updates)

		for i := 0; i < 3; i++ {
			require.NoError(t, scheduler.Once(0.016))
		}
		assert.Equal(t, 1, a.inits)
		assert.Equal(t, 3, a.updates)
		assert.False(t, a.updatedBeforeInit)
		assert.InDelta(t, 0.016, a.lastDt, 1e-9)
	})

	t.Run("first tick starts lazily", func(t *testing.T) {
		r := ecs.NewRegistry()
		a := newRecorder("a", nil)
		r.Add(scripted("a", a))
		scheduler, _ := newLoop(r)

		require.NoError(t, scheduler.Once(1))
		assert.Equal(t, 1, a.inits)
		assert.Equal(t, 1, a.updates)
		assert.False(t, a.updatedBeforeInit)
	})

	t.Run("n ticks give n updates in the same order", func(t *testing.T) {
		r := ecs.NewRegistry()
		log := &journal{}
		recs := []*recorder{newRecorder("a", log), newRecorder("b", log), newRecorder("c", log)}
		for _, rec := range recs {
			r.Add(scripted(rec.name, rec))
		}
		// entities without scripts are ignored
		r.Add(mustDeclare("static", nil, ecs.NewTransform(mgl32.Vec3{})))
		scheduler, _ := newLoop(r)

		const ticks = 5
		for i := 0; i < ticks; i++ {
			require.NoError(t, scheduler.Once(0.1))
		}

		for _, rec := range recs {
			assert.Equal(t, ticks, rec.updates)
		}

		expected := []string{"init:a", "init:b", "init:c"}
		for i := 0; i < ticks; i++ {
			expected = append(expected, "update:a", "update:b", "update:c")
		}
		assert.Equal(t, expected, log.calls)
	})

	t.Run("late additions are initialized before their first update", func(t *testing.T) {
		r := ecs.NewRegistry()
		log := &journal{}
		r.Add(scripted("a", newRecorder("a", log)))
		scheduler, _ := newLoop(r)
		require.NoError(t, scheduler.Once(0))

		late := newRecorder("late", log)
		scheduler.Commands().Add(scripted("late", late))
		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, 0, late.updates, "added during flush, first update is next tick")

		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, 1, late.inits)
		assert.Equal(t, 1, late.updates)
		assert.Equal(t, []string{
			"init:a", "update:a",
			"update:a",
			"update:a", "init:late", "update:late",
		}, log.calls)
	})

	t.Run("owner back-reference", func(t *testing.T) {
		r := ecs.NewRegistry()
		a := newRecorder("a", nil)
		e := scripted("a", a)
		r.Add(e)
		assert.Nil(t, a.Owner())

		scheduler, _ := newLoop(r)
		require.NoError(t, scheduler.Once(0))
		assert.Same(t, e, a.Owner())
	})
}

func TestBehaviorRemoval(t *testing.T) {
	r := ecs.NewRegistry()
	log := &journal{}
	a := newRecorder("a", log)
	b := newRecorder("b", log)
	ea := scripted("a", a)
	r.Add(ea)
	r.Add(scripted("b", b))
	scheduler, behaviors := newLoop(r)

	require.NoError(t, scheduler.Once(0))
	ref := r.CreateEntityRef(ea.Id())

	scheduler.Commands().Remove(ea.Id())
	scheduler.Commands().Remove(ea.Id())
	require.NoError(t, scheduler.Once(0))
	assert.Equal(t, 1, a.destroys)
	assert.Equal(t, 2, a.updates, "removal happens after the tick that queued it")

	for i := 0; i < 3; i++ {
		require.NoError(t, scheduler.Once(0))
	}
	assert.Equal(t, 2, a.updates)
	assert.Equal(t, 1, a.destroys)
	assert.Equal(t, 5, b.updates)
	assert.Equal(t, 1, r.Len())

	_, ok := r.ResolveEntityRef(ref)
	assert.False(t, ok)

	behaviors.Teardown()
	scheduler.Close()
	assert.Equal(t, 1, a.destroys)
	assert.Equal(t, 1, b.destroys)
}

func TestBehaviorTeardown(t *testing.T) {
	r := ecs.NewRegistry()
	log := &journal{}
	r.Add(scripted("a", newRecorder("a", log)))
	r.Add(scripted("b", newRecorder("b", log)))
	never := newRecorder("never", log)
	scheduler, _ := newLoop(r)

	require.NoError(t, scheduler.Once(0))
	scheduler.Commands().Add(scripted("never", never))
	require.NoError(t, scheduler.Once(0))

	scheduler.Close()
	scheduler.Close()

	assert.Equal(t, []string{
		"init:a", "init:b", "update:a", "update:b",
		"update:a", "update:b",
		"destroy:a", "destroy:b",
	}, log.calls, "scripts that never initialized are not destroyed")
	assert.Error(t, scheduler.Once(0), "closed scheduler refuses to tick")
}

func TestBehaviorFaults(t *testing.T) {
	boom := errors.New("boom")

	t.Run("halt propagates update fault", func(t *testing.T) {
		r := ecs.NewRegistry()
		log := &journal{}
		bad := newRecorder("bad", log)
		bad.failUpdate = boom
		after := newRecorder("after", log)
		r.Add(scripted("good", newRecorder("good", log)))
		r.Add(scripted("bad", bad))
		r.Add(scripted("after", after))
		scheduler, _ := newLoop(r)

		err := scheduler.Once(0)
		require.Error(t, err)

		var fault *ecs.BehaviorFault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, "bad", fault.Entity)
		assert.Equal(t, 1, fault.Index)
		assert.Equal(t, ecs.PhaseUpdate, fault.Phase)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, after.updates, "tick stops at the faulting behavior")
	})

	t.Run("halt propagates init fault", func(t *testing.T) {
		r := ecs.NewRegistry()
		bad := newRecorder("bad", nil)
		bad.failInit = boom
		r.Add(scripted("bad", bad))
		_, behaviors := newLoop(r)

		err := behaviors.Start()
		var fault *ecs.BehaviorFault
		require.True(t, errors.As(err, &fault))
		assert.Equal(t, ecs.PhaseInit, fault.Phase)
	})

	t.Run("isolate skips the faulting behavior and logs", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		r := ecs.NewRegistry(ecs.WithLogger(zap.New(core)))
		bad := newRecorder("bad", nil)
		bad.failUpdate = boom
		brokenInit := newRecorder("brokenInit", nil)
		brokenInit.failInit = boom
		after := newRecorder("after", nil)
		r.Add(scripted("bad", bad))
		r.Add(scripted("brokenInit", brokenInit))
		r.Add(scripted("after", after))
		scheduler, behaviors := newLoop(r, ecs.WithFaultPolicy(ecs.FaultIsolate))

		for i := 0; i < 3; i++ {
			require.NoError(t, scheduler.Once(0))
		}

		assert.Equal(t, 3, bad.updates)
		assert.Equal(t, 3, after.updates)
		assert.Equal(t, 1, brokenInit.inits)
		assert.Equal(t, 0, brokenInit.updates)
		assert.Equal(t, int64(4), behaviors.Faults())
		assert.Equal(t, 4, logs.FilterMessage("behavior fault isolated").Len())

		scheduler.Close()
		assert.Equal(t, 1, bad.destroys, "update faults do not skip OnDestroy")
		assert.Equal(t, 1, after.destroys)
		assert.Equal(t, 0, brokenInit.destroys, "failed init is never destroyed")
	})

	t.Run("failed init is not destroyed on removal", func(t *testing.T) {
		r := ecs.NewRegistry()
		bad := newRecorder("bad", nil)
		bad.failInit = boom
		e := scripted("bad", bad)
		r.Add(e)
		scheduler, _ := newLoop(r, ecs.WithFaultPolicy(ecs.FaultIsolate))

		require.NoError(t, scheduler.Once(0))
		scheduler.Commands().Remove(e.Id())
		require.NoError(t, scheduler.Once(0))
		scheduler.Close()

		assert.Equal(t, 1, bad.inits)
		assert.Equal(t, 0, bad.updates)
		assert.Equal(t, 0, bad.destroys)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("panics are not recovered", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.Add(scripted("panicky", ecs.BehaviorFunc(func(*ecs.Entity, *ecs.Registry, float64) error {
			panic("unhandled")
		})))
		scheduler, _ := newLoop(r)
		assert.Panics(t, func() { _ = scheduler.Once(0) })
	})
}

func TestFaultPolicyParse(t *testing.T) {
	p, ok := ecs.ParseFaultPolicy("isolate")
	assert.True(t, ok)
	assert.Equal(t, ecs.FaultIsolate, p)
	assert.Equal(t, "isolate", p.String())

	p, ok = ecs.ParseFaultPolicy("")
	assert.True(t, ok)
	assert.Equal(t, ecs.FaultHalt, p)

	_, ok = ecs.ParseFaultPolicy("retry")
	assert.False(t, ok)
}
