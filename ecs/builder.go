package ecs

import (
	"reflect"

	"github.com/pkg/errors"
)

// EntityBuilder assembles an Entity from component descriptors and tags.
// Building registers nothing; pass the result to Registry.Add.
//
// Example usage:
//
//	box, err := ecs.NewEntity("box").
//	    With(ecs.NewTransform(mgl32.Vec3{0, 1, 0})).
//	    With(&ecs.RigidBody{Mass: 5}).
//	    Tag("Player").
//	    Build()
type EntityBuilder struct {
	entity *Entity
	err    error
	built  bool
}

// NewEntity starts a declaration for an entity with the given name.
func NewEntity(name string) *EntityBuilder {
	return &EntityBuilder{
		entity: &Entity{name: name},
	}
}

// With adds a descriptor. A second descriptor for the same role is recorded as a
// DuplicateRoleError and reported by Build.
// Panics if called after Build().
func (b *EntityBuilder) With(c Component) *EntityBuilder {
	if b.built {
		panic("entity already built - cannot add components after Build()")
	}
	if b.err != nil {
		return b
	}
	if isNil(c) {
		b.err = errors.Wrapf(ErrNilComponent, "entity %q", b.entity.name)
		return b
	}

	role := c.Role()
	if b.entity.signature.Has(role) {
		b.err = &DuplicateRoleError{Entity: b.entity.name, Role: role}
		return b
	}

	if err := validateComponent(c); err != nil {
		b.err = errors.Wrapf(err, "entity %q: %s", b.entity.name, role)
		return b
	}

	b.entity.components[role] = c
	b.entity.signature = b.entity.signature.With(role)
	return b
}

// Tag appends tags. Empty and repeated tags are dropped.
func (b *EntityBuilder) Tag(tags ...string) *EntityBuilder {
	if b.built {
		panic("entity already built - cannot add tags after Build()")
	}
	for _, t := range tags {
		if t == "" || b.entity.HasTag(t) {
			continue
		}
		b.entity.tags = append(b.entity.tags, t)
	}
	return b
}

// Build finalizes the declaration. It returns the first error recorded by With.
func (b *EntityBuilder) Build() (*Entity, error) {
	b.built = true
	if b.err != nil {
		return nil, b.err
	}
	return b.entity, nil
}

// BuildScene builds declarations in order. The first failure is returned as a
// SceneError carrying its declaration index.
func BuildScene(builders ...*EntityBuilder) ([]*Entity, error) {
	entities := make([]*Entity, 0, len(builders))
	for i, b := range builders {
		e, err := b.Build()
		if err != nil {
			return nil, &SceneError{Index: i, Entity: b.entity.name, Err: err}
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// Declare builds an entity in one call.
func Declare(name string, tags []string, components ...Component) (*Entity, error) {
	b := NewEntity(name).Tag(tags...)
	for _, c := range components {
		b.With(c)
	}
	return b.Build()
}

// validateComponent checks payload invariants that can be decided at declaration time.
func validateComponent(c Component) error {
	switch v := c.(type) {
	case *Script:
		if v.Behavior == nil {
			return ErrNilBehavior
		}
	case *GuiBinding:
		for i := range v.Controls {
			if err := v.Controls[i].Validate(); err != nil {
				return errors.Wrapf(err, "control %d", i)
			}
		}
	}
	return nil
}

// isNil catches typed nil pointers stored in the Component interface.
func isNil(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
