// Package debugui provides immediate-mode GUI integration for scenes using Dear ImGui.
// It draws GuiBinding controls and a set of inspection panels over the registry.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

// Panel draws one ImGui window. Render runs after all systems of the tick.
type Panel interface {
	Render(frame *ecs.UpdateFrame)
}

// PanelFunc adapts a plain function to a Panel.
type PanelFunc func(frame *ecs.UpdateFrame)

func (f PanelFunc) Render(frame *ecs.UpdateFrame) { f(frame) }

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Behaviors reading keyboard input should ignore it while WantCaptureKeyboard is set.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem updates the input capture singleton and defers every panel's render
// function to the end of the tick, after the scene has settled.
type ImguiSystem struct {
	Panels     []Panel
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all panels for rendering.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) error {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for _, panel := range i.Panels {
		frame.Commands.Defer(func() { panel.Render(frame) })
	}
	return nil
}

// New builds an ImguiSystem with the standard panels: GUI bindings, entity browser,
// component inspector, signature viewer, role query and performance stats.
// The input state singleton is created on the scheduler's registry.
func New(s *ecs.Scheduler) *ImguiSystem {
	ecs.NewSingleton[ImguiInputState](s.Registry())

	selection := &Selection{}
	return &ImguiSystem{
		Panels: []Panel{
			NewBindingPanel(),
			NewEntityBrowser(selection, 100),
			NewComponentInspector(selection),
			NewSignatureViewer(),
			NewRoleQuery(),
			NewPerformanceStats(s, 120),
		},
	}
}

// Selection is the entity shared between the browser and the inspector.
type Selection struct {
	Id ecs.EntityId
}
