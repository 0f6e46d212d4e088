package render

import (
	"image/color"

	"github.com/plus3/seascene/ecs"
)

// Effects is the combined result of a post-process chain, reduced to what a
// rasterizer without a shader pipeline can apply.
type Effects struct {
	// Brightness multiplies color channels. Bloom raises it.
	Brightness float32
	// Occlusion darkens distant geometry, 0 disables it. SSAO sets it.
	Occlusion float32
	// Smooth asks for linear filtering. FXAA sets it.
	Smooth bool
}

const ssaoStrength = 0.35

// ChainEffects folds passes in order.
func ChainEffects(passes []*ecs.PostProcessPass) Effects {
	fx := Effects{Brightness: 1}
	for _, p := range passes {
		if !p.Enabled {
			continue
		}
		switch p.Effect {
		case ecs.EffectBloom:
			fx.Brightness *= 1 + p.Intensity
		case ecs.EffectFXAA:
			fx.Smooth = true
		case ecs.EffectSSAO:
			fx.Occlusion = ssaoStrength
		}
	}
	return fx
}

// Shade applies the effects to a base color. fog in [0, 1] is how far the surface is
// across the view distance.
func (fx Effects) Shade(c color.RGBA, fog float32) color.RGBA {
	scale := fx.Brightness * (1 - fx.Occlusion*clamp01(fog))
	return color.RGBA{
		R: channel(c.R, scale),
		G: channel(c.G, scale),
		B: channel(c.B, scale),
		A: c.A,
	}
}

func channel(v uint8, scale float32) uint8 {
	return uint8(clamp01(float32(v)*scale/255)*255 + 0.5)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
