package ebitenrender

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/ecs/debugui"
	"github.com/plus3/seascene/input"
	"github.com/plus3/seascene/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T) (*ecs.Registry, *render.Pipeline) {
	t.Helper()
	r := ecs.NewRegistry()
	decl := func(name string, tags []string, components ...ecs.Component) {
		e, err := ecs.Declare(name, tags, components...)
		require.NoError(t, err)
		r.Add(e)
	}
	decl("gameRender", []string{ecs.TagMainGameRender}, &ecs.RenderTarget{Width: 200, Height: 100})
	decl("camera", []string{ecs.TagMainCamera},
		ecs.NewTransform(mgl32.Vec3{0, 0, 10}),
		&ecs.Camera{FovY: 90, Near: 0.1, Far: 100},
	)
	decl("box", nil,
		ecs.NewTransform(mgl32.Vec3{}),
		&ecs.MeshFilter{
			Mesh:    ecs.Mesh{Shape: ecs.ShapeBox, Extent: mgl32.Vec3{2, 2, 2}, Color: color.RGBA{255, 0, 0, 255}},
			Visible: true,
		},
	)
	decl("behind", nil,
		ecs.NewTransform(mgl32.Vec3{0, 0, 50}),
		&ecs.MeshFilter{
			Mesh:    ecs.Mesh{Shape: ecs.ShapeBox, Extent: mgl32.Vec3{1, 1, 1}},
			Visible: true,
		},
	)

	p, err := render.Assemble(r)
	require.NoError(t, err)
	return r, p
}

func TestScreenRect(t *testing.T) {
	r, p := newScene(t)
	f := render.BuildFrame(r, p)
	require.Len(t, f.Drawables, 2)

	byName := map[string]render.Drawable{}
	for _, d := range f.Drawables {
		byName[d.Entity.Name()] = d
	}

	rect, ok := ScreenRect(byName["box"], f, 200, 100)
	require.True(t, ok)
	cx, cy := rect.Center()
	assert.InDelta(t, 100, cx, 0.5)
	assert.InDelta(t, 50, cy, 0.5)
	assert.Greater(t, rect.W(), float32(0))
	assert.LessOrEqual(t, rect.X1, float32(200))

	_, ok = ScreenRect(byName["behind"], f, 200, 100)
	assert.False(t, ok, "mesh behind the camera is culled")
}

func TestRendererInput(t *testing.T) {
	held := map[ebiten.Key]bool{}
	r, p := newScene(t)
	renderer := New(p, nil)
	renderer.pressed = func(k ebiten.Key) bool { return held[k] }

	scheduler := ecs.NewScheduler(r)
	scheduler.Register(renderer)

	held[ebiten.KeyD] = true
	held[ebiten.KeySpace] = true
	require.NoError(t, scheduler.Once(1.0/60))

	var state *input.State
	require.True(t, ecs.ReadSingleton(r, &state))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, state.Move)
	assert.True(t, state.Jump)
	require.NotNil(t, renderer.Frame())
	assert.Len(t, renderer.Frame().Drawables, 2)

	t.Run("released keys clear on next tick", func(t *testing.T) {
		clear(held)
		require.NoError(t, scheduler.Once(1.0/60))
		assert.False(t, state.Active())
	})

	t.Run("imgui capture suppresses keys", func(t *testing.T) {
		ecs.NewSingleton(r, debugui.ImguiInputState{WantCaptureKeyboard: true})
		held[ebiten.KeyA] = true
		require.NoError(t, scheduler.Once(1.0/60))
		assert.True(t, state.Captured)
		assert.Equal(t, mgl32.Vec3{}, state.Direction())
	})
}
