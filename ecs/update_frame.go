package ecs

// UpdateFrame is passed to every system during one tick.
type UpdateFrame struct {
	DeltaTime float64
	Tick      uint64
	Registry  *Registry
	Commands  *Commands
}

func newUpdateFrame(dt float64, tick uint64, registry *Registry, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Tick:      tick,
		Registry:  registry,
		Commands:  commands,
	}
}
