package ecs

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Component is implemented by every descriptor type. Descriptors are always
// held by pointer so that subsystems can mutate their payload in place.
type Component interface {
	Role() Role
}

// Transform is the pose of an entity in world space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func (*Transform) Role() Role { return RoleTransform }

// NewTransform returns a transform at pos with identity rotation and unit scale.
func NewTransform(pos mgl32.Vec3) *Transform {
	return &Transform{
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the model matrix (translate * rotate * scale).
func (t *Transform) Matrix() mgl32.Mat4 {
	rot := t.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Forward returns the unit vector the transform faces (-Z rotated).
func (t *Transform) Forward() mgl32.Vec3 {
	rot := t.Rotation
	if rot.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return rot.Rotate(mgl32.Vec3{0, 0, -1})
}

// Shape is the primitive a mesh is drawn as.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapePlane
	ShapeDome
	ShapeModel
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapePlane:
		return "plane"
	case ShapeDome:
		return "dome"
	case ShapeModel:
		return "model"
	}
	return "unknown"
}

// Mesh is a fully loaded geometry handle. Asset loading happens before declaration.
type Mesh struct {
	Name   string
	Shape  Shape
	Extent mgl32.Vec3
	Color  color.RGBA
}

// Material carries values animated by behaviors and read by the renderer.
type Material struct {
	Tint   color.RGBA
	Params map[string]float32
}

// Param returns the named parameter, or zero.
func (m *Material) Param(name string) float32 {
	if m.Params == nil {
		return 0
	}
	return m.Params[name]
}

// SetParam stores a named parameter, allocating the map on first use.
func (m *Material) SetParam(name string, v float32) {
	if m.Params == nil {
		m.Params = make(map[string]float32)
	}
	m.Params[name] = v
}

// MeshFilter attaches drawable geometry to the entity's Transform.
type MeshFilter struct {
	Mesh     Mesh
	Material Material
	Visible  bool
}

func (*MeshFilter) Role() Role { return RoleMeshFilter }

// RigidBody is the physics state of an entity. It is always paired with a Transform.
type RigidBody struct {
	Mass      float32
	Velocity  mgl32.Vec3
	Extent    mgl32.Vec3
	Kinematic bool
}

func (*RigidBody) Role() Role { return RoleRigidBody }

// ApplyImpulse changes velocity by impulse/mass. Kinematic and massless bodies ignore it.
func (rb *RigidBody) ApplyImpulse(impulse mgl32.Vec3) {
	if rb.Kinematic || rb.Mass <= 0 {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(1 / rb.Mass))
}

// Camera describes a perspective projection. Its pose comes from the entity's Transform.
type Camera struct {
	FovY   float32 // degrees
	Aspect float32
	Near   float32
	Far    float32
	// Target is the world point the camera looks at.
	Target mgl32.Vec3
}

func (*Camera) Role() Role { return RoleCamera }

// Projection returns the perspective matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// View returns the view matrix for a camera placed at t looking at Target.
func (c *Camera) View(t *Transform) mgl32.Mat4 {
	eye := t.Position
	target := c.Target
	if target.ApproxEqual(eye) {
		target = eye.Add(t.Forward())
	}
	return mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
}

// Script attaches a Behavior to an entity.
type Script struct {
	Behavior Behavior
}

func (*Script) Role() Role { return RoleScript }

// RenderTarget is the device/scene/pass-chain triple consumed by the renderer.
type RenderTarget struct {
	Width      int
	Height     int
	ClearColor color.RGBA
	// Root names the scene graph the renderer draws.
	Root string
	// Chain is filled by pipeline assembly in execution order.
	Chain []*PostProcessPass
}

func (*RenderTarget) Role() Role { return RoleRenderTarget }

// Effect selects a post-processing pass implementation.
type Effect uint8

const (
	EffectBloom Effect = iota
	EffectFXAA
	EffectSSAO
)

func (e Effect) String() string {
	switch e {
	case EffectBloom:
		return "bloom"
	case EffectFXAA:
		return "fxaa"
	case EffectSSAO:
		return "ssao"
	}
	return "unknown"
}

// PostProcessPass declares one pass of the post-processing chain.
// Passes run in ascending Order; ties keep registry order.
type PostProcessPass struct {
	Name      string
	Effect    Effect
	Order     int
	Intensity float32
	Enabled   bool
}

func (*PostProcessPass) Role() Role { return RolePostProcessPass }

// GuiBinding exposes entity values to the debug panel.
type GuiBinding struct {
	Controls []GuiControl
}

func (*GuiBinding) Role() Role { return RoleGuiBinding }
