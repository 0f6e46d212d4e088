package ecs

import (
	"iter"
	"reflect"
	"weak"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Registry is the ordered collection of entities that the frame loop iterates.
// Iteration order always equals insertion order. Removed slots are left empty
// and never reused, so the order of the remaining entities is stable.
type Registry struct {
	id       uuid.UUID
	log      *zap.Logger
	entities []*Entity
	live     int
	version  uint64

	// tag hash -> slot positions in insertion order
	tags *intmap.Map[uint64, []int]
	refs *intmap.Map[EntityId, weak.Pointer[EntityRef]]

	resources   map[reflect.Type]any
	removeHooks []func(*Entity)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registry events.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		id:        uuid.New(),
		log:       zap.NewNop(),
		tags:      intmap.New[uint64, []int](64),
		refs:      intmap.New[EntityId, weak.Pointer[EntityRef]](64),
		resources: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(zap.Stringer("scene_id", r.id))
	return r
}

// ID identifies this registry instance in logs.
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// Logger returns the registry's scene-scoped logger.
func (r *Registry) Logger() *zap.Logger {
	return r.log
}

// Add appends an entity and returns its id. Panics if the entity is nil or
// already belongs to a registry.
func (r *Registry) Add(e *Entity) EntityId {
	if e == nil {
		panic("cannot add nil entity")
	}
	if e.registry != nil {
		panic("entity " + e.String() + " already belongs to a registry")
	}

	pos := len(r.entities)
	e.registry = r
	e.index = pos
	e.id = NewEntityId(e.signature, uint32(pos+1))
	r.entities = append(r.entities, e)
	r.live++
	r.version++

	for _, tag := range e.tags {
		h := hashTag(tag)
		slots, _ := r.tags.Get(h)
		r.tags.Put(h, append(slots, pos))
	}

	r.log.Debug("entity added",
		zap.String("entity", e.String()),
		zap.Int("index", pos),
		zap.Stringer("roles", e.signature),
		zap.Strings("tags", e.tags),
	)
	return e.id
}

// Get returns the live entity with the given id.
func (r *Registry) Get(id EntityId) (*Entity, bool) {
	pos := int(id.Slot()) - 1
	if pos < 0 || pos >= len(r.entities) {
		return nil, false
	}
	e := r.entities[pos]
	if e == nil || e.id != id {
		return nil, false
	}
	return e, true
}

// At returns the entity declared at index, or nil if it was removed or never existed.
func (r *Registry) At(index int) *Entity {
	if index < 0 || index >= len(r.entities) {
		return nil
	}
	return r.entities[index]
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.live
}

// Version changes every time an entity is added or removed.
func (r *Registry) Version() uint64 {
	return r.version
}

// All iterates live entities in insertion order. The sequence is lazy and can be
// ranged over any number of times.
func (r *Registry) All() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range r.entities {
			if e == nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// FindFirstByTag returns the first live entity carrying tag, in insertion order.
// A missing tag is reported through the boolean, never as an error.
func (r *Registry) FindFirstByTag(tag string) (*Entity, bool) {
	for e := range r.FindAllByTag(tag) {
		return e, true
	}
	return nil, false
}

// FindAllByTag iterates every live entity carrying tag, in insertion order.
func (r *Registry) FindAllByTag(tag string) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		slots, ok := r.tags.Get(hashTag(tag))
		if !ok {
			return
		}
		for _, pos := range slots {
			e := r.entities[pos]
			// a hash collision can land a different tag in the same bucket
			if e == nil || !e.HasTag(tag) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// CountTag returns how many live entities carry tag.
func (r *Registry) CountTag(tag string) int {
	n := 0
	for range r.FindAllByTag(tag) {
		n++
	}
	return n
}

// OnRemove registers a hook that runs before a removed entity's slot is released.
func (r *Registry) OnRemove(fn func(*Entity)) {
	r.removeHooks = append(r.removeHooks, fn)
}

// remove releases the entity's slot. Only the frame loop driver reaches this,
// through Commands.Flush or Scheduler.Close.
func (r *Registry) remove(id EntityId) bool {
	e, ok := r.Get(id)
	if !ok {
		return false
	}

	for _, hook := range r.removeHooks {
		hook(e)
	}

	if weakPtr, ok := r.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
		}
		r.refs.Del(id)
	}

	r.entities[e.index] = nil
	r.live--
	r.version++
	e.registry = nil

	r.log.Debug("entity removed", zap.String("entity", e.String()), zap.Int("index", e.index))
	return true
}

// CreateEntityRef returns a weak, invalidatable reference to an entity.
// Calling it twice for the same live entity returns the same reference.
func (r *Registry) CreateEntityRef(id EntityId) *EntityRef {
	if _, ok := r.Get(id); !ok {
		return nil
	}

	if weakPtr, ok := r.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		r.refs.Del(id)
	}

	ref := &EntityRef{Id: id}
	r.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the entity behind ref, or false once it was removed.
func (r *Registry) ResolveEntityRef(ref *EntityRef) (*Entity, bool) {
	if ref == nil || ref.Id == 0 {
		return nil, false
	}
	return r.Get(ref.Id)
}

// EntityRef is a stable reference to an entity. Its Id is zeroed when the entity is removed.
type EntityRef struct {
	Id EntityId
}

func hashTag(tag string) uint64 {
	return xxhash.Sum64String(tag)
}
