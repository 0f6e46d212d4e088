package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	ID    ecs.EntityId
	Index int
	Name  string
	Tags  []string
	Roles []string
}

// Entity browser columns.
const (
	ColumnIndex = iota
	ColumnName
	ColumnTags
	ColumnRoles
)

type EntityBrowser struct {
	selection          *Selection
	rows               []EntityInfo
	version            uint64
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
	sortColumn         int
	sortAscending      bool
}

func NewEntityBrowser(selection *Selection, maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		selection:          selection,
		maxEntitiesPerPage: maxEntitiesPerPage,
		sortAscending:      true,
	}
}

func (eb *EntityBrowser) Render(frame *ecs.UpdateFrame) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildIfNeeded(frame.Registry)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filtered := FilterEntities(eb.rows, eb.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("#")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Tags")
		imgui.TableSetupColumn("Roles")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortEntities(eb.rows, eb.sortColumn, eb.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start, end := pageBounds(len(filtered), eb.currentPage, eb.maxEntitiesPerPage)
		for _, entity := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selection.Id == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.Index), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selection.Id = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Tags, ", "))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Roles, ", "))
		}

		imgui.EndTable()
	}

	if len(filtered) > eb.maxEntitiesPerPage {
		totalPages := (len(filtered) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

func (eb *EntityBrowser) rebuildIfNeeded(r *ecs.Registry) {
	if eb.rows != nil && eb.version == r.Version() {
		return
	}
	eb.rows = CollectEntities(r)
	eb.version = r.Version()
	SortEntities(eb.rows, eb.sortColumn, eb.sortAscending)
}

// CollectEntities snapshots the live entities of r in registry order.
func CollectEntities(r *ecs.Registry) []EntityInfo {
	rows := make([]EntityInfo, 0, r.Len())
	for e := range r.All() {
		roles := make([]string, 0, e.Signature().Len())
		for _, role := range e.Signature().Roles() {
			roles = append(roles, role.String())
		}
		rows = append(rows, EntityInfo{
			ID:    e.Id(),
			Index: e.Index(),
			Name:  e.Name(),
			Tags:  e.Tags(),
			Roles: roles,
		})
	}
	return rows
}

// SortEntities orders rows in place by column. Ties keep registry order.
func SortEntities(rows []EntityInfo, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case ColumnName:
			return a.Name < b.Name
		case ColumnTags:
			return strings.Join(a.Tags, ",") < strings.Join(b.Tags, ",")
		case ColumnRoles:
			return len(a.Roles) < len(b.Roles)
		default:
			return a.Index < b.Index
		}
	})
}

// FilterEntities keeps rows whose index, name, tags or roles contain text, case-insensitively.
func FilterEntities(rows []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return rows
	}

	filtered := make([]EntityInfo, 0, len(rows))
	needle := strings.ToLower(text)
	for _, entity := range rows {
		haystack := strings.ToLower(fmt.Sprintf("%d %s %s %s",
			entity.Index, entity.Name, strings.Join(entity.Tags, " "), strings.Join(entity.Roles, " ")))
		if strings.Contains(haystack, needle) {
			filtered = append(filtered, entity)
		}
	}
	return filtered
}

func pageBounds(total, page, perPage int) (int, int) {
	start := page * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}
