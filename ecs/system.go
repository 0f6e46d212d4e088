package ecs

// System is one stage of the frame loop (behaviors, physics, rendering, GUI).
// Systems can include Query and Singleton fields, which the Scheduler binds to
// its registry on registration, as well as custom state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame) error
}

// Teardowner is implemented by systems that release resources when the scene closes.
type Teardowner interface {
	Teardown()
}
