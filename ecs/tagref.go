package ecs

// TagRef is a weak cross-entity reference: it stores only a tag and resolves
// through the registry on every use, so it always observes the current descriptors
// of the first entity carrying the tag.
type TagRef struct {
	Tag string
}

// Resolve returns the first live entity carrying the tag.
func (t TagRef) Resolve(r *Registry) (*Entity, bool) {
	if r == nil || t.Tag == "" {
		return nil, false
	}
	return r.FindFirstByTag(t.Tag)
}

// LookupByTag returns descriptor T of the first entity tagged tag.
// It reports false if no entity carries the tag or the entity lacks T.
func LookupByTag[T Component](r *Registry, tag string) (T, bool) {
	e, ok := TagRef{Tag: tag}.Resolve(r)
	if !ok {
		var zero T
		return zero, false
	}
	return Get[T](e)
}
