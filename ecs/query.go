package ecs

import (
	"iter"
)

// Query wraps a View and caches the matching entities between registry changes.
// Systems hold Query fields; the Scheduler binds them on registration.
type Query[T any] struct {
	view     *View[T]
	registry *Registry

	cachedEntities   []*Entity
	cachedComponents []T
	cachedVersion    uint64
	cacheValid       bool
}

// NewQuery creates a new Query over registry.
func NewQuery[T any](registry *Registry) *Query[T] {
	q := &Query[T]{}
	q.Init(registry)
	return q
}

// Init initializes or re-initializes the Query with a registry.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(registry *Registry) {
	q.view = NewView[T](registry)
	q.registry = registry
	q.cacheValid = false
}

// Execute rebuilds the cache if entities were added or removed since the last build.
func (q *Query[T]) Execute() {
	if q.registry == nil {
		panic("Query used before Init")
	}
	if q.cacheValid && q.cachedVersion == q.registry.Version() {
		return
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]
	for e, item := range q.view.Iter() {
		q.cachedEntities = append(q.cachedEntities, e)
		q.cachedComponents = append(q.cachedComponents, item)
	}

	q.cachedVersion = q.registry.Version()
	q.cacheValid = true
}

// Len returns the number of matching entities.
func (q *Query[T]) Len() int {
	q.Execute()
	return len(q.cachedEntities)
}

// Iter yields matching entities and their view structs in registry order.
func (q *Query[T]) Iter() iter.Seq2[*Entity, T] {
	q.Execute()
	return func(yield func(*Entity, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values yields only the view structs.
func (q *Query[T]) Values() iter.Seq[T] {
	q.Execute()
	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}
