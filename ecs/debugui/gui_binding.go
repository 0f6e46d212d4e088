package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

// BindingPanel draws one window per GuiBinding path and writes edits back through
// GuiControl.Set, so bounds, snapping and change callbacks apply.
type BindingPanel struct {
	firstFrame bool
}

func NewBindingPanel() *BindingPanel {
	return &BindingPanel{firstFrame: true}
}

func (bp *BindingPanel) Render(frame *ecs.UpdateFrame) {
	groups := ecs.GroupControls(frame.Registry)
	for gi, group := range groups {
		if bp.firstFrame {
			imgui.SetNextWindowPosV(imgui.NewVec2(10, 10+float32(gi)*130), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(260, 120), imgui.CondOnce)
		}

		title := group.Path
		if title == "" {
			title = "Controls"
		}
		if !imgui.BeginV(title, nil, imgui.WindowFlagsNone) {
			imgui.End()
			continue
		}

		for ci, control := range group.Controls {
			for _, axis := range control.Axes() {
				v := control.Get(axis)
				label := fmt.Sprintf("%s##%d-%d", control.Label(axis), ci, axis)
				if imgui.SliderFloat(label, &v, control.Min[axis], control.Max[axis]) {
					control.Set(axis, v)
				}
			}
		}
		imgui.End()
	}
	bp.firstFrame = false
}
