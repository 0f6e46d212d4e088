package ecs_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
)

// ExampleRegistry_FindFirstByTag shows the lookup behaviors use to find each other.
// When several entities share a tag the earliest declared one wins.
func ExampleRegistry_FindFirstByTag() {
	r := ecs.NewRegistry()
	r.Add(mustDeclare("boat", []string{"objectToBeFollowed"}, ecs.NewTransform(mgl32.Vec3{0, 10, 0})))
	r.Add(mustDeclare("raft", []string{"objectToBeFollowed"}, ecs.NewTransform(mgl32.Vec3{4, 0, 0})))

	if e, ok := r.FindFirstByTag("objectToBeFollowed"); ok {
		fmt.Printf("following %s at %v\n", e.Name(), ecs.MustGet[*ecs.Transform](e).Position)
	}
	if _, ok := r.FindFirstByTag("MainCamera"); !ok {
		fmt.Println("no camera declared")
	}

	// Output:
	// following boat at [0 10 0]
	// no camera declared
}

// ExampleNewEntity builds a declaration with the fluent builder.
func ExampleNewEntity() {
	e, err := ecs.NewEntity("box").
		With(ecs.NewTransform(mgl32.Vec3{})).
		With(&ecs.RigidBody{Mass: 5}).
		Tag("Box").
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(e.Name(), e.Signature(), e.Tags())

	_, err = ecs.NewEntity("exampleBox").
		With(ecs.NewTransform(mgl32.Vec3{})).
		With(ecs.NewTransform(mgl32.Vec3{1, 0, 0})).
		Build()
	fmt.Println(err)

	// Output:
	// box {Transform,RigidBody} [Box]
	// entity "exampleBox": duplicate Transform component
}

// ExampleEntityRef shows that refs stop resolving once the entity is removed.
func ExampleEntityRef() {
	r := ecs.NewRegistry()
	scheduler := ecs.NewScheduler(r)
	boat := mustDeclare("boat", nil, ecs.NewTransform(mgl32.Vec3{}))
	r.Add(boat)

	ref := r.CreateEntityRef(boat.Id())
	e, ok := r.ResolveEntityRef(ref)
	fmt.Println(e.Name(), ok)

	scheduler.Commands().Remove(boat.Id())
	_ = scheduler.Once(0)
	_, ok = r.ResolveEntityRef(ref)
	fmt.Println("after removal:", ok)

	// Output:
	// boat true
	// after removal: false
}
