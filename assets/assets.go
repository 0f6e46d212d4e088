// Package assets resolves model references into meshes before a scene is declared.
package assets

import (
	"context"
	"image/color"
	"io"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/plus3/seascene/ecs"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var ErrUnknownModel = errors.New("unknown model")

// ModelSpec names a model and the placement hints it is loaded with.
type ModelSpec struct {
	Name  string
	Shape ecs.Shape
	Scale float32
	Color color.RGBA
}

// Loader turns a spec into a fully loaded mesh. Implementations must be safe for
// concurrent use.
type Loader interface {
	Load(ctx context.Context, spec ModelSpec) (ecs.Mesh, error)
}

// LoadAll resolves every spec concurrently and returns the meshes by name.
// The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, loader Loader, specs []ModelSpec) (map[string]ecs.Mesh, error) {
	g, ctx := errgroup.WithContext(ctx)
	meshes := make([]ecs.Mesh, len(specs))
	for i, spec := range specs {
		g.Go(func() error {
			mesh, err := loader.Load(ctx, spec)
			if err != nil {
				return errors.Wrapf(err, "load model %q", spec.Name)
			}
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]ecs.Mesh, len(specs))
	for i, spec := range specs {
		out[spec.Name] = meshes[i]
	}
	return out, nil
}

// Procedural builds meshes from the ModelSpec alone: a unit primitive of the requested
// shape, scaled.
type Procedural struct{}

func (Procedural) Load(ctx context.Context, spec ModelSpec) (ecs.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return ecs.Mesh{}, err
	}
	if spec.Name == "" {
		return ecs.Mesh{}, errors.Wrap(ErrUnknownModel, "empty name")
	}
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	return ecs.Mesh{
		Name:   spec.Name,
		Shape:  spec.Shape,
		Extent: mgl32.Vec3{scale, scale, scale},
		Color:  spec.Color,
	}, nil
}

// ModelDef is one entry of a catalog file.
type ModelDef struct {
	Shape  string     `yaml:"shape"`
	Extent [3]float32 `yaml:"extent"`
	Color  [4]uint8   `yaml:"color"`
}

// Catalog serves meshes described in a YAML document keyed by model name.
type Catalog struct {
	mu     sync.RWMutex
	models map[string]ModelDef
	loads  map[string]int
}

// NewCatalog decodes a catalog such as:
//
//	boat:
//	  shape: model
//	  extent: [2, 1, 5]
//	  color: [120, 80, 40, 255]
func NewCatalog(r io.Reader) (*Catalog, error) {
	models := map[string]ModelDef{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&models); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode model catalog")
	}
	for name, def := range models {
		if _, ok := ParseShape(def.Shape); !ok {
			return nil, errors.Errorf("model %q: unknown shape %q", name, def.Shape)
		}
	}
	return &Catalog{models: models, loads: map[string]int{}}, nil
}

func (c *Catalog) Load(ctx context.Context, spec ModelSpec) (ecs.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return ecs.Mesh{}, err
	}
	c.mu.Lock()
	def, ok := c.models[spec.Name]
	if ok {
		c.loads[spec.Name]++
	}
	c.mu.Unlock()
	if !ok {
		return ecs.Mesh{}, errors.Wrap(ErrUnknownModel, spec.Name)
	}

	shape, _ := ParseShape(def.Shape)
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	return ecs.Mesh{
		Name:   spec.Name,
		Shape:  shape,
		Extent: mgl32.Vec3(def.Extent).Mul(scale),
		Color:  color.RGBA{def.Color[0], def.Color[1], def.Color[2], def.Color[3]},
	}, nil
}

// Loads reports how many times name was served.
func (c *Catalog) Loads(name string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads[name]
}

// ParseShape is the inverse of ecs.Shape.String.
func ParseShape(s string) (ecs.Shape, bool) {
	for _, shape := range []ecs.Shape{ecs.ShapeBox, ecs.ShapePlane, ecs.ShapeDome, ecs.ShapeModel} {
		if shape.String() == s {
			return shape, true
		}
	}
	return 0, false
}
