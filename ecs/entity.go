package ecs

import (
	"iter"
	"slices"
)

// EntityId encodes the role signature (upper 32 bits) and the registry slot (lower 32 bits).
// Slot numbering starts at 1 so the zero EntityId never names a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a signature and registry slot
func NewEntityId(signature Signature, slot uint32) EntityId {
	return EntityId(uint64(signature)<<32 | uint64(slot))
}

// Signature extracts the role signature from the entity ID
func (e EntityId) Signature() Signature {
	return Signature(e >> 32)
}

// Slot extracts the registry slot from the entity ID
func (e EntityId) Slot() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Entity is a named bag of component descriptors, at most one per role, plus tags.
// The set of roles is fixed once built; descriptor payloads stay mutable.
type Entity struct {
	id         EntityId
	name       string
	index      int
	tags       []string
	signature  Signature
	components [roleCount]Component
	registry   *Registry
}

// Id returns the registry-assigned id, or zero before the entity is added.
func (e *Entity) Id() EntityId {
	return e.id
}

func (e *Entity) Name() string {
	return e.name
}

// Index returns the declaration index within the registry, or -1 before the entity is added.
func (e *Entity) Index() int {
	if e.registry == nil {
		return -1
	}
	return e.index
}

// Tags returns a copy of the entity's tags.
func (e *Entity) Tags() []string {
	return slices.Clone(e.tags)
}

func (e *Entity) HasTag(tag string) bool {
	return slices.Contains(e.tags, tag)
}

func (e *Entity) Signature() Signature {
	return e.signature
}

func (e *Entity) Has(role Role) bool {
	return e.signature.Has(role)
}

// Component returns the descriptor for role, or nil.
func (e *Entity) Component(role Role) Component {
	if !role.Valid() {
		return nil
	}
	return e.components[role]
}

// Components iterates the entity's descriptors in role order.
func (e *Entity) Components() iter.Seq2[Role, Component] {
	return func(yield func(Role, Component) bool) {
		for r := Role(0); r < roleCount; r++ {
			c := e.components[r]
			if c == nil {
				continue
			}
			if !yield(r, c) {
				return
			}
		}
	}
}

// Get returns the descriptor of type T carried by e.
// T must be a descriptor pointer type such as *Transform.
func Get[T Component](e *Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	c := e.components[zero.Role()]
	if c == nil {
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}

// MustGet is Get for descriptors the caller knows are present. It panics otherwise.
func MustGet[T Component](e *Entity) T {
	c, ok := Get[T](e)
	if !ok {
		var zero T
		panic("entity " + e.name + " has no " + zero.Role().String() + " component")
	}
	return c
}

func (e *Entity) String() string {
	if e.name != "" {
		return e.name
	}
	return "entity" + e.signature.String()
}
