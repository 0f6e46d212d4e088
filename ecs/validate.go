package ecs

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Well-known tags the frame loop depends on.
const (
	TagMainGameRender = "MainGameRender"
	TagMainCamera     = "MainCamera"
)

var (
	ErrMissingEntity   = errors.New("required entity missing")
	ErrAmbiguousEntity = errors.New("required entity declared more than once")
	ErrMissingRole     = errors.New("required component missing")
)

// ValidateScene checks the invariants the frame loop relies on and returns every
// violation found, combined. A nil result means the scene may run.
//
//   - exactly one entity tagged MainGameRender, carrying a RenderTarget
//   - exactly one entity tagged MainCamera, carrying a Camera and a Transform
//   - every RigidBody is paired with a Transform on the same entity
//   - every Script carries a behavior
func ValidateScene(r *Registry) error {
	var err error
	err = multierr.Append(err, requireUnique(r, TagMainGameRender, RoleRenderTarget))
	err = multierr.Append(err, requireUnique(r, TagMainCamera, RoleCamera, RoleTransform))

	for e := range r.All() {
		if e.Has(RoleRigidBody) && !e.Has(RoleTransform) {
			err = multierr.Append(err, &SceneError{
				Index:  e.index,
				Entity: e.String(),
				Err:    errors.Wrapf(ErrMissingRole, "%s requires %s", RoleRigidBody, RoleTransform),
			})
		}
		if script, ok := Get[*Script](e); ok && script.Behavior == nil {
			err = multierr.Append(err, &SceneError{Index: e.index, Entity: e.String(), Err: ErrNilBehavior})
		}
	}
	return err
}

func requireUnique(r *Registry, tag string, roles ...Role) error {
	var matches []*Entity
	for e := range r.FindAllByTag(tag) {
		matches = append(matches, e)
	}

	switch len(matches) {
	case 0:
		return errors.Wrapf(ErrMissingEntity, "no entity tagged %q", tag)
	case 1:
	default:
		indexes := make([]int, len(matches))
		for i, e := range matches {
			indexes[i] = e.index
		}
		return errors.Wrapf(ErrAmbiguousEntity, "tag %q on entities %v", tag, indexes)
	}

	var err error
	e := matches[0]
	for _, role := range roles {
		if !e.Has(role) {
			err = multierr.Append(err, &SceneError{
				Index:  e.index,
				Entity: e.String(),
				Err:    errors.Wrap(ErrMissingRole, fmt.Sprintf("%q entity needs %s", tag, role)),
			})
		}
	}
	return err
}
