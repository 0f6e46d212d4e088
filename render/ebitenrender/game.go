package ebitenrender

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/seascene/ecs"
	debugui_ebiten "github.com/plus3/seascene/ecs/debugui/ebiten"
	"github.com/plus3/seascene/input"
)

// Game implements ebiten.Game around a scheduler whose systems include a Renderer.
type Game struct {
	Scheduler *ecs.Scheduler
	Renderer  *Renderer
	// Backend is optional. When set, every tick is bracketed by an ImGui frame
	// and the overlay is drawn over the scene.
	Backend *ecs.Singleton[debugui_ebiten.ImguiBackend]
	// MaxTicks stops the game after that many ticks, 0 runs until quit.
	MaxTicks uint64
}

func (g *Game) Update() error {
	if g.Backend != nil {
		g.Backend.Get().BeginFrame()
	}

	err := g.Scheduler.Once(1 / float64(ebiten.TPS()))

	if g.Backend != nil {
		g.Backend.Get().EndFrame()
	}
	if err != nil {
		return err
	}

	var state *input.State
	if ecs.ReadSingleton(g.Scheduler.Registry(), &state) && state.Quit {
		return ebiten.Termination
	}
	if g.MaxTicks > 0 && g.Scheduler.Tick() >= g.MaxTicks {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Renderer.Draw(screen)
	if g.Backend != nil {
		g.Backend.Get().Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Backend != nil {
		g.Backend.Get().Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until the game terminates. ebiten.Termination is
// not reported as an error.
func Run(g *Game, title string, width, height, tps int) error {
	if g.Backend == nil {
		ebiten.SetWindowTitle(title)
		ebiten.SetWindowSize(width, height)
	}
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	return ebiten.RunGame(g)
}
