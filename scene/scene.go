// Package scene declares the sea scene: a render target, a controllable box, a
// following camera, the post-process chain, sky, water and a boat with a follower.
package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/plus3/seascene/assets"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/internal/config"
	"go.uber.org/zap"
)

const (
	TagFollowed = "objectToBeFollowed"
	TagFollower = "Follower"
)

var (
	boxColor   = color.RGBA{0, 255, 0, 255}
	waterColor = color.RGBA{0, 80, 140, 255}
	clearColor = color.RGBA{0, 0, 0, 255}
)

// Models lists the assets the scene needs. They must be loaded before Declare.
func Models(cfg *config.Config) []assets.ModelSpec {
	return []assets.ModelSpec{
		{Name: cfg.Boat.Model, Shape: ecs.ShapeModel, Scale: 1, Color: color.RGBA{150, 100, 60, 255}},
	}
}

// Declare builds the scene entities in declaration order without registering them.
// meshes must contain every model listed by Models.
func Declare(cfg *config.Config, meshes map[string]ecs.Mesh, log *zap.Logger) ([]*ecs.Entity, error) {
	if log == nil {
		log = zap.NewNop()
	}
	boat, ok := meshes[cfg.Boat.Model]
	if !ok {
		return nil, errors.Wrapf(assets.ErrUnknownModel, "boat model %q was not loaded", cfg.Boat.Model)
	}

	var builders []*ecs.EntityBuilder

	builders = append(builders, ecs.NewEntity("gameRender").
		Tag(ecs.TagMainGameRender).
		With(&ecs.RenderTarget{
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			ClearColor: clearColor,
			Root:       "mainScene",
		}))

	boxTransform := ecs.NewTransform(mgl32.Vec3{})
	boxControl, err := ecs.NewVectorControl([]string{"BoxPosition"}, &boxTransform.Position,
		mgl32.Vec3{-10, -20, -30}, mgl32.Vec3{10, 20, 30}, mgl32.Vec3{1, 1, 1}, [3]string{"X", "Y", "Z"})
	if err != nil {
		return nil, errors.Wrap(err, "box position control")
	}
	for axis := range boxControl.OnChange {
		name := ecs.Axis(axis).String()
		boxControl.OnChange[axis] = func(v float32) {
			log.Debug("box position changed", zap.String("axis", name), zap.Float32("value", v))
		}
	}
	builders = append(builders, ecs.NewEntity("box").
		With(&ecs.MeshFilter{
			Mesh:     ecs.Mesh{Name: "box", Shape: ecs.ShapeBox, Extent: mgl32.Vec3{1, 1, 1}, Color: boxColor},
			Material: ecs.Material{Tint: boxColor},
			Visible:  true,
		}).
		With(boxTransform).
		With(&ecs.Script{Behavior: &BoxBehavior{Force: 40, Jump: 25}}).
		With(&ecs.RigidBody{Mass: 5, Extent: mgl32.Vec3{1, 1, 1}}).
		With(&ecs.GuiBinding{Controls: []ecs.GuiControl{boxControl}}))

	followed := cfg.Boat.Position
	builders = append(builders, ecs.NewEntity("camera").
		Tag(ecs.TagMainCamera).
		With(&ecs.Camera{
			FovY: cfg.Camera.FovY,
			Near: cfg.Camera.Near,
			Far:  cfg.Camera.Far,
			// Aspect is left to the render pipeline.
			Target: followed,
		}).
		With(ecs.NewTransform(followed.Add(cfg.Camera.Offset))).
		With(&ecs.Script{Behavior: &CameraFollow{
			Target:    ecs.TagRef{Tag: cfg.Camera.FollowTag},
			Offset:    cfg.Camera.Offset,
			Smoothing: cfg.Camera.Smoothing,
		}}))

	passes := []*ecs.PostProcessPass{
		{Name: "bloom", Effect: ecs.EffectBloom, Order: 0, Intensity: cfg.Post.BloomIntensity, Enabled: true},
		{Name: "fxaa", Effect: ecs.EffectFXAA, Order: 1, Enabled: cfg.Post.FXAA},
		{Name: "ssao", Effect: ecs.EffectSSAO, Order: 2, Enabled: cfg.Post.SSAO},
	}
	for _, pass := range passes {
		builders = append(builders, ecs.NewEntity("postProcessing." + pass.Name).With(pass))
	}

	skyTransform := ecs.NewTransform(mgl32.Vec3{})
	skyTransform.Scale = mgl32.Vec3{450000, 450000, 450000}
	builders = append(builders, ecs.NewEntity("sky").
		With(&ecs.MeshFilter{
			Mesh:    ecs.Mesh{Name: "sky", Shape: ecs.ShapeDome, Extent: mgl32.Vec3{1, 1, 1}, Color: dayTint},
			Visible: true,
		}).
		With(skyTransform).
		With(&ecs.Script{Behavior: &SkyBehavior{Period: 240, Start: 0.1}}))

	exampleTransform := ecs.NewTransform(mgl32.Vec3{})
	slider, err := ecs.NewSliderControl([]string{"ExampleBox"}, &exampleTransform.Position, ecs.AxisX, -3, 3, 0.1, "X-Axis")
	if err != nil {
		return nil, errors.Wrap(err, "example box slider")
	}
	builders = append(builders, ecs.NewEntity("exampleBox").
		With(&ecs.MeshFilter{
			Mesh:     ecs.Mesh{Name: "exampleBox", Shape: ecs.ShapeBox, Extent: mgl32.Vec3{10, 10, 10}, Color: boxColor},
			Material: ecs.Material{Tint: boxColor},
			Visible:  true,
		}).
		With(&ecs.Script{Behavior: &Placeholder{}}).
		With(exampleTransform).
		With(&ecs.GuiBinding{Controls: []ecs.GuiControl{slider}}).
		With(&ecs.RigidBody{Mass: 55, Extent: mgl32.Vec3{10, 10, 10}}))

	builders = append(builders, ecs.NewEntity("water").
		With(&ecs.MeshFilter{
			Mesh:     ecs.Mesh{Name: "water", Shape: ecs.ShapePlane, Extent: mgl32.Vec3{10000, 0, 10000}, Color: waterColor},
			Material: ecs.Material{Tint: waterColor},
			Visible:  true,
		}).
		With(ecs.NewTransform(mgl32.Vec3{0, cfg.Physics.WaterLevel, 0})).
		With(&ecs.Script{Behavior: &WaterBehavior{Speed: 1, Amplitude: 0.25}}))

	boatTransform := ecs.NewTransform(cfg.Boat.Position)
	boatTransform.Scale = mgl32.Vec3{cfg.Boat.Scale, cfg.Boat.Scale, cfg.Boat.Scale}
	builders = append(builders, ecs.NewEntity("boat").
		Tag(TagFollowed).
		With(&ecs.MeshFilter{Mesh: boat, Visible: true}).
		With(boatTransform))

	builders = append(builders, ecs.NewEntity("follower").
		Tag(TagFollower).
		With(ecs.NewTransform(cfg.Boat.Position)).
		With(&ecs.Script{Behavior: &BoatFollow{
			Target: ecs.TagRef{Tag: TagFollowed},
			Rate:   cfg.Boat.FollowRate,
		}}))

	return ecs.BuildScene(builders...)
}

// Populate declares the scene into r and validates it.
func Populate(r *ecs.Registry, cfg *config.Config, meshes map[string]ecs.Mesh) error {
	entities, err := Declare(cfg, meshes, r.Logger())
	if err != nil {
		return errors.Wrap(err, "declare scene")
	}
	for _, e := range entities {
		r.Add(e)
	}
	return ecs.ValidateScene(r)
}
