package ecs

import (
	"reflect"
)

// Singleton provides access to a single value stored on the registry rather than
// on any entity. Use this for per-scene shared state such as input.
type Singleton[T any] struct {
	registry *Registry
	ptr      *T
}

// NewSingleton returns an accessor for the T resource of r.
// If the resource does not exist yet it is created from initializer, or the zero value.
// This guarantees the resource exists after the call.
func NewSingleton[T any](r *Registry, initializer ...T) *Singleton[T] {
	typ := reflect.TypeFor[T]()
	if _, ok := r.resources[typ]; !ok {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		r.resources[typ] = value
	}
	s := &Singleton[T]{}
	s.Init(r)
	return s
}

// Init binds the accessor to a registry.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(r *Registry) {
	s.registry = r
	s.ptr = nil
	s.updateCache()
}

// Get returns a pointer to the resource, or nil if it was never added.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.updateCache()
	}
	return s.ptr
}

// Exists reports whether the resource has been added.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.registry == nil {
		return
	}
	if v, ok := s.registry.resources[reflect.TypeFor[T]()]; ok {
		s.ptr = v.(*T)
	}
}

// ReadSingleton points *out at the T resource of r and reports whether it exists.
func ReadSingleton[T any](r *Registry, out **T) bool {
	v, ok := r.resources[reflect.TypeFor[T]()]
	if !ok {
		*out = nil
		return false
	}
	*out = v.(*T)
	return true
}
