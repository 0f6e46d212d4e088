package ecs_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	r := ecs.NewRegistry()
	boat := mustDeclare("boat", nil, ecs.NewTransform(mgl32.Vec3{0, 10, 0}), &ecs.RigidBody{Mass: 5})
	crate := mustDeclare("crate", nil, ecs.NewTransform(mgl32.Vec3{1, 0, 0}), &ecs.RigidBody{Mass: 55}, &ecs.MeshFilter{Visible: true})
	sky := mustDeclare("sky", nil, ecs.NewTransform(mgl32.Vec3{}))
	r.Add(boat)
	r.Add(crate)
	r.Add(sky)

	t.Run("embedded fields are required", func(t *testing.T) {
		view := ecs.NewView[struct {
			*ecs.Transform
			*ecs.RigidBody
		}](r)

		var names []string
		for e, item := range view.Iter() {
			names = append(names, e.Name())
			assert.Same(t, ecs.MustGet[*ecs.Transform](e), item.Transform)
			assert.Same(t, ecs.MustGet[*ecs.RigidBody](e), item.RigidBody)
		}
		assert.Equal(t, []string{"boat", "crate"}, names)
		assert.Equal(t, ecs.SignatureOf(ecs.RoleTransform, ecs.RoleRigidBody), view.Required())
		assert.Nil(t, view.Get(sky))
	})

	t.Run("writes go through to the descriptor", func(t *testing.T) {
		view := ecs.NewView[struct{ *ecs.Transform }](r)
		item := view.Get(boat)
		require.NotNil(t, item)
		item.Transform.Position[1] = 42
		assert.Equal(t, float32(42), ecs.MustGet[*ecs.Transform](boat).Position.Y())
	})

	t.Run("optional fields", func(t *testing.T) {
		view := ecs.NewView[struct {
			Transform *ecs.Transform
			Mesh      *ecs.MeshFilter `ecs:"optional"`
		}](r)

		withMesh := 0
		total := 0
		for item := range view.Values() {
			total++
			if item.Mesh != nil {
				withMesh++
				assert.True(t, item.Mesh.Visible)
			}
		}
		assert.Equal(t, 3, total)
		assert.Equal(t, 1, withMesh)
	})

	t.Run("entity refs", func(t *testing.T) {
		view := ecs.NewView[struct{ *ecs.RigidBody }](r)
		ref := r.CreateEntityRef(crate.Id())
		assert.Same(t, ref, r.CreateEntityRef(crate.Id()))

		item := view.GetRef(ref)
		require.NotNil(t, item)
		assert.Equal(t, float32(55), item.RigidBody.Mass)
		assert.Nil(t, view.GetRef(nil))
		assert.Nil(t, r.CreateEntityRef(ecs.NewEntityId(0, 99)))
	})

	t.Run("invalid view types panic", func(t *testing.T) {
		assert.Panics(t, func() { ecs.NewView[int](r) })
		assert.Panics(t, func() { ecs.NewView[struct{ X float32 }](r) })
		assert.Panics(t, func() {
			ecs.NewView[struct {
				T *ecs.Transform `ecs:"sometimes"`
			}](r)
		})
	})
}

func TestQuery(t *testing.T) {
	r := ecs.NewRegistry()
	scheduler := ecs.NewScheduler(r)
	r.Add(mustDeclare("a", nil, ecs.NewTransform(mgl32.Vec3{}), &ecs.RigidBody{Mass: 1}))

	query := ecs.NewQuery[struct {
		*ecs.Transform
		*ecs.RigidBody
	}](r)
	assert.Equal(t, 1, query.Len())

	t.Run("cache follows registry changes", func(t *testing.T) {
		b := mustDeclare("b", nil, ecs.NewTransform(mgl32.Vec3{}), &ecs.RigidBody{Mass: 2})
		scheduler.Commands().Add(b)
		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, 2, query.Len())

		var masses []float32
		for item := range query.Values() {
			masses = append(masses, item.RigidBody.Mass)
		}
		assert.Equal(t, []float32{1, 2}, masses)

		scheduler.Commands().Remove(b.Id())
		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, 1, query.Len())
	})

	t.Run("early break", func(t *testing.T) {
		r.Add(mustDeclare("c", nil, ecs.NewTransform(mgl32.Vec3{}), &ecs.RigidBody{Mass: 3}))
		count := 0
		for range query.Iter() {
			count++
			break
		}
		assert.Equal(t, 1, count)
	})

	t.Run("uninitialized query panics", func(t *testing.T) {
		var q ecs.Query[struct{ *ecs.Transform }]
		assert.Panics(t, func() { q.Execute() })
	})
}
