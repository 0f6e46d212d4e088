package ecs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNilComponent = errors.New("nil component")
	ErrNilBehavior  = errors.New("script has no behavior")
)

// DuplicateRoleError is returned when a declaration supplies two descriptors for one role.
type DuplicateRoleError struct {
	Entity string
	Role   Role
}

func (e *DuplicateRoleError) Error() string {
	return fmt.Sprintf("entity %q: duplicate %s component", e.Entity, e.Role)
}

// SceneError attaches the declaration index and entity name to a scene assembly failure.
type SceneError struct {
	Index  int
	Entity string
	Err    error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene entity #%d (%s): %v", e.Index, e.Entity, e.Err)
}

func (e *SceneError) Unwrap() error {
	return e.Err
}

// Phase names the lifecycle callback that faulted.
type Phase string

const (
	PhaseInit    Phase = "init"
	PhaseUpdate  Phase = "update"
	PhaseDestroy Phase = "destroy"
)

// BehaviorFault wraps an error returned from a behavior lifecycle callback.
type BehaviorFault struct {
	Entity string
	Index  int
	Phase  Phase
	Err    error
}

func (f *BehaviorFault) Error() string {
	return fmt.Sprintf("behavior on entity #%d (%s) failed during %s: %v", f.Index, f.Entity, f.Phase, f.Err)
}

func (f *BehaviorFault) Unwrap() error {
	return f.Err
}
