package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View reads a fixed combination of descriptors from entities.
// The type T should be a struct with embedded or named pointer fields for each descriptor type.
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
//
//	physics := ecs.NewView[struct {
//	    *ecs.Transform
//	    *ecs.RigidBody
//	}](registry)
type View[T any] struct {
	registry    *Registry
	roles       []Role
	optional    []bool
	fieldOffset []uintptr
	required    Signature
}

var componentType = reflect.TypeFor[Component]()

// NewView creates a new view for the given struct type.
// Panics if T is not a struct of descriptor pointers.
func NewView[T any](registry *Registry) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		registry:    registry,
		roles:       make([]Role, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType.Kind() != reflect.Ptr || !fieldType.Implements(componentType) {
			panic("View struct fields must be component descriptor pointers, got " + fieldType.String())
		}

		role := reflect.Zero(fieldType).Interface().(Component).Role()

		// Embedded fields are always required
		isOptional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
				isOptional = true
			}
		}

		v.roles = append(v.roles, role)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		if !isOptional {
			v.required = v.required.With(role)
		}
	}

	return v
}

// Init binds the view to a registry.
func (v *View[T]) Init(registry *Registry) {
	v.registry = registry
}

// Required returns the roles an entity must carry to match.
func (v *View[T]) Required() Signature {
	return v.required
}

// Matches reports whether e carries every required descriptor.
func (v *View[T]) Matches(e *Entity) bool {
	return e != nil && e.signature.Contains(v.required)
}

// Fill populates the provided struct with descriptor pointers from e.
// Returns false if e lacks a required descriptor. Missing optional fields are set to nil.
func (v *View[T]) Fill(e *Entity, ptr *T) bool {
	if !v.Matches(e) {
		return false
	}

	structPtr := unsafe.Pointer(ptr)
	for i, role := range v.roles {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		component := e.components[role]
		if component == nil {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// The interface data word is the descriptor pointer itself
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

// Get returns a populated view struct for e, or nil if e does not match.
func (v *View[T]) Get(e *Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// GetRef returns a populated view struct for the entity behind ref, or nil if invalid.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	e, ok := v.registry.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(e)
}

// Iter yields every matching entity in registry order.
func (v *View[T]) Iter() iter.Seq2[*Entity, T] {
	return func(yield func(*Entity, T) bool) {
		var result T
		for e := range v.registry.All() {
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values yields only the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
