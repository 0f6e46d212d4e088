package ecs_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/plus3/seascene/ecs"
	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func validScene() *ecs.Registry {
	r := ecs.NewRegistry()
	r.Add(mustDeclare("gameRender", []string{ecs.TagMainGameRender}, &ecs.RenderTarget{Width: 640, Height: 360}))
	r.Add(mustDeclare("camera", []string{ecs.TagMainCamera}, ecs.NewTransform(mgl32.Vec3{}), &ecs.Camera{FovY: 75, Near: 0.1, Far: 1000}))
	return r
}

func TestValidateScene(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ecs.ValidateScene(validScene()))
	})

	t.Run("empty scene reports both missing entities", func(t *testing.T) {
		err := ecs.ValidateScene(ecs.NewRegistry())
		assert.ErrorIs(t, err, ecs.ErrMissingEntity)
		assert.Len(t, multierr.Errors(err), 2)
	})

	t.Run("duplicate render target", func(t *testing.T) {
		r := validScene()
		r.Add(mustDeclare("second", []string{ecs.TagMainGameRender}, &ecs.RenderTarget{}))
		err := ecs.ValidateScene(r)
		assert.ErrorIs(t, err, ecs.ErrAmbiguousEntity)
		assert.Contains(t, err.Error(), "[0 2]")
	})

	t.Run("camera missing transform", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.Add(mustDeclare("gameRender", []string{ecs.TagMainGameRender}, &ecs.RenderTarget{}))
		r.Add(mustDeclare("camera", []string{ecs.TagMainCamera}, &ecs.Camera{}))
		err := ecs.ValidateScene(r)

		var sceneErr *ecs.SceneError
		assert.True(t, errors.As(err, &sceneErr))
		assert.Equal(t, 1, sceneErr.Index)
		assert.Equal(t, "camera", sceneErr.Entity)
		assert.ErrorIs(t, err, ecs.ErrMissingRole)
	})

	t.Run("rigid body without transform", func(t *testing.T) {
		r := validScene()
		r.Add(mustDeclare("ghost", nil, &ecs.RigidBody{Mass: 1}))
		err := ecs.ValidateScene(r)

		var sceneErr *ecs.SceneError
		assert.True(t, errors.As(err, &sceneErr))
		assert.Equal(t, 2, sceneErr.Index)
		assert.Contains(t, err.Error(), "RigidBody requires Transform")
	})

	t.Run("script behavior cleared after declaration", func(t *testing.T) {
		r := validScene()
		script := &ecs.Script{Behavior: &ecs.BaseBehavior{}}
		r.Add(mustDeclare("blank", nil, script))
		script.Behavior = nil
		assert.ErrorIs(t, ecs.ValidateScene(r), ecs.ErrNilBehavior)
	})
}
