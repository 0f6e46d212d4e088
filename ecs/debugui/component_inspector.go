package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/seascene/ecs"
)

var globalReflectionCache = NewReflectionCache()

// ComponentInspector shows every descriptor of the selected entity and lets numeric,
// boolean, string and vector fields be edited in place.
type ComponentInspector struct {
	selection *Selection
}

func NewComponentInspector(selection *Selection) *ComponentInspector {
	return &ComponentInspector{selection: selection}
}

func (ci *ComponentInspector) Render(frame *ecs.UpdateFrame) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	if ci.selection.Id == 0 {
		imgui.Text("No entity selected")
		return
	}

	e, ok := frame.Registry.Get(ci.selection.Id)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %d was removed", ci.selection.Id))
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s (#%d)", e.Name(), e.Index()))
	imgui.Text(fmt.Sprintf("Tags: %v", e.Tags()))
	imgui.Separator()

	for role, component := range e.Components() {
		if imgui.TreeNodeStr(role.String()) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}
}

func (ci *ComponentInspector) renderComponent(component ecs.Component) {
	val := reflect.ValueOf(component).Elem()
	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, fieldVal)
	}
}

func (ci *ComponentInspector) renderField(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Array:
		if val.Type().Elem().Kind() != reflect.Float32 {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
			return
		}
		if imgui.TreeNodeStr(fmt.Sprintf("%s %v", name, val.Interface())) {
			for i := 0; i < val.Len(); i++ {
				ci.renderField(fmt.Sprintf("%s[%d]", name, i), val.Index(i))
			}
			imgui.TreePop()
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nested := val.Field(nf.Index)
				if nf.IsPointer && !nested.IsNil() {
					nested = nested.Elem()
				}
				ci.renderField(nf.Name, nested)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Interface:
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		imgui.Text(fmt.Sprintf("%s: %s", name, val.Elem().Type()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
