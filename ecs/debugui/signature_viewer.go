package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

// SignatureInfo counts live entities sharing one role combination.
type SignatureInfo struct {
	Signature   ecs.Signature
	EntityCount int
}

// SignatureViewer lists role combinations by population, with a bar per row.
type SignatureViewer struct {
	rows    []SignatureInfo
	version uint64
}

func NewSignatureViewer() *SignatureViewer {
	return &SignatureViewer{}
}

func (sv *SignatureViewer) Render(frame *ecs.UpdateFrame) {
	if !imgui.BeginV("Signatures", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if sv.rows == nil || sv.version != frame.Registry.Version() {
		sv.rows = CollectSignatures(frame.Registry.Stats())
		sv.version = frame.Registry.Version()
	}

	maxEntityCount := 0
	for _, row := range sv.rows {
		maxEntityCount = max(maxEntityCount, row.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SignatureTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Roles")
		imgui.TableSetupColumn("Role Count")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		for _, row := range sv.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(row.Signature.String())

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Signature.Len()))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(row.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
}

// CollectSignatures turns registry stats into rows, most populated first.
// Equal counts are ordered by signature value.
func CollectSignatures(stats ecs.RegistryStats) []SignatureInfo {
	rows := make([]SignatureInfo, 0, len(stats.SignatureCount))
	for sig, n := range stats.SignatureCount {
		rows = append(rows, SignatureInfo{Signature: sig, EntityCount: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EntityCount != rows[j].EntityCount {
			return rows[i].EntityCount > rows[j].EntityCount
		}
		return rows[i].Signature < rows[j].Signature
	})
	return rows
}
