// Package render assembles the render pipeline from the registry and provides the
// projection and pass-chain math shared by the concrete renderers.
package render

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/plus3/seascene/ecs"
)

var (
	ErrNoRenderTarget        = errors.New("no entity carries a RenderTarget")
	ErrMultipleRenderTargets = errors.New("more than one entity carries a RenderTarget")
	ErrNoCamera              = errors.New("no camera to render from")
)

// Pipeline is the resolved render configuration for one scene.
type Pipeline struct {
	Target       *ecs.Entity
	RenderTarget *ecs.RenderTarget
	Camera       *ecs.Entity
	// Passes are the enabled post-process passes in execution order.
	Passes []*ecs.PostProcessPass
}

// Assemble locates the single render target and the main camera and orders the
// enabled post-process passes by Order, then by registry order. The pass chain is
// stored on the RenderTarget as well.
func Assemble(r *ecs.Registry) (*Pipeline, error) {
	targets := ecs.NewView[struct{ *ecs.RenderTarget }](r)

	p := &Pipeline{}
	for e, item := range targets.Iter() {
		if p.Target != nil {
			return nil, &ecs.SceneError{
				Index:  e.Index(),
				Entity: e.String(),
				Err:    errors.Wrapf(ErrMultipleRenderTargets, "%s already declared by entity #%d", ecs.RoleRenderTarget, p.Target.Index()),
			}
		}
		p.Target = e
		p.RenderTarget = item.RenderTarget
	}
	if p.Target == nil {
		return nil, ErrNoRenderTarget
	}

	camera, ok := r.FindFirstByTag(ecs.TagMainCamera)
	if !ok {
		return nil, errors.Wrapf(ErrNoCamera, "no entity tagged %q", ecs.TagMainCamera)
	}
	if !camera.Has(ecs.RoleCamera) || !camera.Has(ecs.RoleTransform) {
		return nil, &ecs.SceneError{
			Index:  camera.Index(),
			Entity: camera.String(),
			Err:    errors.Wrapf(ErrNoCamera, "needs %s and %s", ecs.RoleCamera, ecs.RoleTransform),
		}
	}
	p.Camera = camera

	passes := ecs.NewView[struct{ *ecs.PostProcessPass }](r)
	for item := range passes.Values() {
		if item.PostProcessPass.Enabled {
			p.Passes = append(p.Passes, item.PostProcessPass)
		}
	}
	sort.SliceStable(p.Passes, func(i, j int) bool {
		return p.Passes[i].Order < p.Passes[j].Order
	})
	p.RenderTarget.Chain = p.Passes
	return p, nil
}

// Aspect returns the render target's width over height, or 1 for a degenerate size.
func (p *Pipeline) Aspect() float32 {
	if p.RenderTarget.Width <= 0 || p.RenderTarget.Height <= 0 {
		return 1
	}
	return float32(p.RenderTarget.Width) / float32(p.RenderTarget.Height)
}
