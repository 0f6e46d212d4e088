package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

// RoleQuery lets the user tick roles and lists the entities carrying all of them,
// the same match rule a View uses.
type RoleQuery struct {
	selected ecs.Signature
}

func NewRoleQuery() *RoleQuery {
	return &RoleQuery{}
}

func (rq *RoleQuery) Render(frame *ecs.UpdateFrame) {
	if !imgui.BeginV("Role Query", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Roles:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		rq.selected = 0
	}

	for _, role := range ecs.Roles() {
		checked := rq.selected.Has(role)
		if imgui.Checkbox(role.String(), &checked) {
			rq.Toggle(role, checked)
		}
	}

	imgui.Separator()

	if rq.selected == 0 {
		imgui.Text("No roles selected")
		imgui.End()
		return
	}

	matches := MatchRoles(frame.Registry, rq.selected)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Matches") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("RoleQueryTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("#")
			imgui.TableSetupColumn("Name")
			imgui.TableSetupColumn("All Roles")
			imgui.TableHeadersRow()

			for _, e := range matches {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e.Index()))

				imgui.TableSetColumnIndex(1)
				imgui.Text(e.Name())

				imgui.TableSetColumnIndex(2)
				imgui.Text(strings.Trim(e.Signature().String(), "{}"))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

// Toggle adds or removes a role from the selection.
func (rq *RoleQuery) Toggle(role ecs.Role, on bool) {
	if on {
		rq.selected = rq.selected.With(role)
		return
	}
	rq.selected &^= ecs.SignatureOf(role)
}

// Selected returns the roles currently ticked.
func (rq *RoleQuery) Selected() ecs.Signature {
	return rq.selected
}

// MatchRoles returns the live entities carrying every role in required, in registry order.
func MatchRoles(r *ecs.Registry, required ecs.Signature) []*ecs.Entity {
	var matches []*ecs.Entity
	for e := range r.All() {
		if e.Signature().Contains(required) {
			matches = append(matches, e)
		}
	}
	return matches
}
