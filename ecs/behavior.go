package ecs

import "weak"

// Behavior is the lifecycle contract for scripts attached through a Script component.
// OnInit runs exactly once before the first OnUpdate; OnUpdate runs once per tick.
// Behaviors may mutate their own entity's descriptors and read the registry,
// but must not add or remove entities.
type Behavior interface {
	OnInit(e *Entity, r *Registry) error
	OnUpdate(e *Entity, r *Registry, dt float64) error
}

// Destroyer is implemented by behaviors that need to release state when their
// entity is removed or the scene is torn down.
type Destroyer interface {
	OnDestroy(e *Entity)
}

// BaseBehavior provides no-op callbacks and a weak back-reference to the owning entity.
// Embed it and override the callbacks you need.
type BaseBehavior struct {
	owner weak.Pointer[Entity]
}

func (b *BaseBehavior) OnInit(*Entity, *Registry) error { return nil }

func (b *BaseBehavior) OnUpdate(*Entity, *Registry, float64) error { return nil }

// Owner returns the entity the behavior is attached to, or nil once that entity is gone.
// The reference never keeps the entity alive.
func (b *BaseBehavior) Owner() *Entity {
	return b.owner.Value()
}

func (b *BaseBehavior) bind(e *Entity) {
	b.owner = weak.Make(e)
}

// binder is satisfied by any behavior embedding BaseBehavior.
type binder interface {
	bind(e *Entity)
}

// BehaviorFunc adapts a plain update function to the Behavior interface.
type BehaviorFunc func(e *Entity, r *Registry, dt float64) error

func (f BehaviorFunc) OnInit(*Entity, *Registry) error { return nil }

func (f BehaviorFunc) OnUpdate(e *Entity, r *Registry, dt float64) error {
	return f(e, r, dt)
}
