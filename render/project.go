package render

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/seascene/ecs"
)

// Project maps a world-space point to pixel coordinates on a width×height surface
// with the origin at the top left. ok is false for points behind the camera or
// outside the depth range. depth is the normalized device depth in [-1, 1].
func Project(point mgl32.Vec3, view, projection mgl32.Mat4, width, height int) (x, y, depth float32, ok bool) {
	clip := projection.Mul4(view).Mul4x1(point.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X() + 1) / 2 * float32(width)
	y = (1 - ndc.Y()) / 2 * float32(height)
	return x, y, ndc.Z(), true
}

// Drawable is a visible mesh placed in the world for one frame.
type Drawable struct {
	Entity   *ecs.Entity
	Mesh     *ecs.Mesh
	Material ecs.Material
	Model    mgl32.Mat4
	// Center is the world position of the mesh origin.
	Center mgl32.Vec3
	// Distance from the camera eye, used for back-to-front ordering.
	Distance float32
}

// Frame is everything a renderer needs for one tick.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Drawables  []Drawable
	Effects    Effects
}

// BuildFrame resolves the camera matrices and collects visible meshes. Domes come
// first as background, the rest farthest first.
func BuildFrame(r *ecs.Registry, p *Pipeline) *Frame {
	cam := ecs.MustGet[*ecs.Camera](p.Camera)
	camT := ecs.MustGet[*ecs.Transform](p.Camera)
	if cam.Aspect == 0 {
		cam.Aspect = p.Aspect()
	}

	f := &Frame{
		View:       cam.View(camT),
		Projection: cam.Projection(),
		Eye:        camT.Position,
		Effects:    ChainEffects(p.Passes),
	}

	meshes := ecs.NewView[struct {
		*ecs.Transform
		*ecs.MeshFilter
	}](r)
	for e, item := range meshes.Iter() {
		if !item.MeshFilter.Visible {
			continue
		}
		f.Drawables = append(f.Drawables, Drawable{
			Entity:   e,
			Mesh:     &item.MeshFilter.Mesh,
			Material: item.MeshFilter.Material,
			Model:    item.Transform.Matrix(),
			Center:   item.Transform.Position,
			Distance: item.Transform.Position.Sub(f.Eye).Len(),
		})
	}
	sort.SliceStable(f.Drawables, func(i, j int) bool {
		a, b := f.Drawables[i], f.Drawables[j]
		if domeA, domeB := a.Mesh.Shape == ecs.ShapeDome, b.Mesh.Shape == ecs.ShapeDome; domeA != domeB {
			return domeA
		}
		return a.Distance > b.Distance
	})
	return f
}
