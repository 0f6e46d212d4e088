package ecs

// Commands buffers structural changes to the registry until the end of a tick,
// so no system observes the entity sequence changing mid-frame.
type Commands struct {
	adds    []*Entity
	removes []EntityId
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Add queues an entity to be appended to the registry.
func (c *Commands) Add(e *Entity) {
	c.adds = append(c.adds, e)
}

// Remove queues an entity removal. The entity's behavior receives OnDestroy
// during the flush, before its slot is released.
func (c *Commands) Remove(id EntityId) {
	c.removes = append(c.removes, id)
}

// Defer queues a function to run after adds and removes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending reports whether any command is queued.
func (c *Commands) Pending() bool {
	return len(c.adds)+len(c.removes)+len(c.defers) > 0
}

// Flush applies queued commands to the registry and resets the buffer.
// Removals run first, then additions, then deferred functions.
func (c *Commands) Flush(registry *Registry) {
	for _, id := range c.removes {
		registry.remove(id)
	}

	for _, e := range c.adds {
		registry.Add(e)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
