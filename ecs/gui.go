package ecs

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ErrInvalidBounds is returned when a GUI control has min > max or a negative step.
var ErrInvalidBounds = errors.New("invalid gui bounds")

// ControlKind selects the widget the binder draws.
type ControlKind uint8

const (
	// ControlVector edits all three axes of the target.
	ControlVector ControlKind = iota
	// ControlSlider edits a single axis of the target.
	ControlSlider
)

func (k ControlKind) String() string {
	if k == ControlSlider {
		return "slider"
	}
	return "vector"
}

// Axis indexes a component of a Vec3.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// ParseAxis accepts "x", "y" or "z".
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	case "z":
		return AxisZ, true
	}
	return 0, false
}

// GuiControl binds one widget to a Vec3 owned by a descriptor (usually a Transform position).
type GuiControl struct {
	Path   []string
	Kind   ControlKind
	Axis   Axis
	Target *mgl32.Vec3
	Min    mgl32.Vec3
	Max    mgl32.Vec3
	Step   mgl32.Vec3
	Labels [3]string
	// OnChange is called per axis after Set changes the value.
	OnChange [3]func(float32)
}

// NewVectorControl builds a three-axis control and validates its bounds.
func NewVectorControl(path []string, target *mgl32.Vec3, min, max, step mgl32.Vec3, labels [3]string) (GuiControl, error) {
	c := GuiControl{
		Path:   path,
		Kind:   ControlVector,
		Target: target,
		Min:    min,
		Max:    max,
		Step:   step,
		Labels: labels,
	}
	return c, c.Validate()
}

// NewSliderControl builds a single-axis control and validates its bounds.
func NewSliderControl(path []string, target *mgl32.Vec3, axis Axis, min, max, step float32, label string) (GuiControl, error) {
	c := GuiControl{
		Path:   path,
		Kind:   ControlSlider,
		Axis:   axis,
		Target: target,
	}
	c.Min[axis] = min
	c.Max[axis] = max
	c.Step[axis] = step
	c.Labels[axis] = label
	return c, c.Validate()
}

// Axes lists the axes the control edits.
func (c *GuiControl) Axes() []Axis {
	if c.Kind == ControlSlider {
		return []Axis{c.Axis}
	}
	return []Axis{AxisX, AxisY, AxisZ}
}

// Validate checks min <= max and step >= 0 on every edited axis.
func (c *GuiControl) Validate() error {
	if c.Target == nil {
		return errors.Wrap(ErrInvalidBounds, "nil target")
	}
	if c.Kind == ControlSlider && (c.Axis < AxisX || c.Axis > AxisZ) {
		return errors.Wrapf(ErrInvalidBounds, "axis %d out of range", c.Axis)
	}
	for _, a := range c.Axes() {
		if c.Min[a] > c.Max[a] {
			return errors.Wrapf(ErrInvalidBounds, "axis %s: min %g > max %g", a, c.Min[a], c.Max[a])
		}
		if c.Step[a] < 0 {
			return errors.Wrapf(ErrInvalidBounds, "axis %s: negative step %g", a, c.Step[a])
		}
	}
	return nil
}

// Label returns the display label of an axis, falling back to the axis name.
func (c *GuiControl) Label(a Axis) string {
	if c.Labels[a] != "" {
		return c.Labels[a]
	}
	return strings.ToUpper(a.String())
}

// Get returns the current value of an axis.
func (c *GuiControl) Get(a Axis) float32 {
	return c.Target[a]
}

// Set clamps v to the axis bounds, snaps it to the step grid anchored at Min,
// writes it to the target and fires OnChange when the stored value changed.
// It returns the value actually stored.
func (c *GuiControl) Set(a Axis, v float32) float32 {
	v = Snap(v, c.Min[a], c.Max[a], c.Step[a])
	if c.Target[a] == v {
		return v
	}
	c.Target[a] = v
	if fn := c.OnChange[a]; fn != nil {
		fn(v)
	}
	return v
}

// Snap clamps v into [min, max] and rounds it to the nearest multiple of step from min.
// A zero step only clamps.
func Snap(v, min, max, step float32) float32 {
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	if step <= 0 {
		return v
	}
	n := math.Round(float64((v - min) / step))
	snapped := min + float32(n)*step
	if snapped > max {
		snapped -= step
	}
	return snapped
}

// GuiGroup is a set of controls sharing a path, in declaration order.
type GuiGroup struct {
	Path     string
	Controls []*GuiControl
}

// GroupControls collects every GuiBinding control in the registry, grouped by
// joined path. Groups appear in order of first occurrence.
func GroupControls(r *Registry) []GuiGroup {
	var groups []GuiGroup
	index := make(map[string]int)
	for e := range r.All() {
		binding, ok := Get[*GuiBinding](e)
		if !ok {
			continue
		}
		for i := range binding.Controls {
			c := &binding.Controls[i]
			key := strings.Join(c.Path, "/")
			idx, seen := index[key]
			if !seen {
				idx = len(groups)
				index[key] = idx
				groups = append(groups, GuiGroup{Path: key})
			}
			groups[idx].Controls = append(groups[idx].Controls, c)
		}
	}
	return groups
}
