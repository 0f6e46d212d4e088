// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// It is stored as a registry singleton so renderers can bracket each frame.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Install creates the backend window and registers it on r.
// The imgui.ini file is disabled so runs stay reproducible.
func Install(r *ecs.Registry, title string, width, height int) *ecs.Singleton[ImguiBackend] {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ecs.NewSingleton(r, ImguiBackend{EbitenBackend: backend})
}
