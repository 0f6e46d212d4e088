package ecs_test

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
)

// journal records lifecycle calls across behaviors in call order.
type journal struct {
	calls []string
}

func (j *journal) add(s string) {
	j.calls = append(j.calls, s)
}

// recorder counts lifecycle callbacks and writes them to a shared journal.
type recorder struct {
	ecs.BaseBehavior
	name     string
	log      *journal
	inits    int
	updates  int
	destroys int
	// updatedBeforeInit is set if OnUpdate ever ran before OnInit.
	updatedBeforeInit bool
	lastDt            float64
	failInit          error
	failUpdate        error
}

func newRecorder(name string, log *journal) *recorder {
	return &recorder{name: name, log: log}
}

func (r *recorder) OnInit(e *ecs.Entity, reg *ecs.Registry) error {
	r.inits++
	if r.log != nil {
		r.log.add("init:" + r.name)
	}
	return r.failInit
}

func (r *recorder) OnUpdate(e *ecs.Entity, reg *ecs.Registry, dt float64) error {
	if r.inits == 0 {
		r.updatedBeforeInit = true
	}
	r.updates++
	r.lastDt = dt
	if r.log != nil {
		r.log.add("update:" + r.name)
	}
	return r.failUpdate
}

func (r *recorder) OnDestroy(e *ecs.Entity) {
	r.destroys++
	if r.log != nil {
		r.log.add("destroy:" + r.name)
	}
}

// mover shifts its own transform along +X every update.
type mover struct {
	ecs.BaseBehavior
	Speed float32
}

func (m *mover) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	t := ecs.MustGet[*ecs.Transform](e)
	t.Position = t.Position.Add(mgl32.Vec3{m.Speed * float32(dt), 0, 0})
	return nil
}

// follower copies the position of the first entity tagged Tag plus Offset.
type follower struct {
	ecs.BaseBehavior
	Tag    string
	Offset mgl32.Vec3
}

func (f *follower) OnUpdate(e *ecs.Entity, r *ecs.Registry, dt float64) error {
	target, ok := ecs.LookupByTag[*ecs.Transform](r, f.Tag)
	if !ok {
		return nil
	}
	ecs.MustGet[*ecs.Transform](e).Position = target.Position.Add(f.Offset)
	return nil
}

func mustDeclare(name string, tags []string, components ...ecs.Component) *ecs.Entity {
	e, err := ecs.Declare(name, tags, components...)
	if err != nil {
		panic(err)
	}
	return e
}

func scripted(name string, b ecs.Behavior, tags ...string) *ecs.Entity {
	return mustDeclare(name, tags, ecs.NewTransform(mgl32.Vec3{}), &ecs.Script{Behavior: b})
}
