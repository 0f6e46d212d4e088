package ecs

import (
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// FaultPolicy decides what the dispatcher does when a behavior callback returns an error.
type FaultPolicy uint8

const (
	// FaultHalt stops the tick and returns the BehaviorFault to the frame loop.
	FaultHalt FaultPolicy = iota
	// FaultIsolate logs the fault and skips the offending behavior for this tick.
	// A behavior whose OnInit fails is never updated.
	FaultIsolate
)

func (p FaultPolicy) String() string {
	if p == FaultIsolate {
		return "isolate"
	}
	return "halt"
}

// ParseFaultPolicy accepts "halt" or "isolate".
func ParseFaultPolicy(s string) (FaultPolicy, bool) {
	switch s {
	case "halt", "":
		return FaultHalt, true
	case "isolate":
		return FaultIsolate, true
	}
	return FaultHalt, false
}

// scriptState tracks one script. disabled marks a failed OnInit: the script
// never updates and never receives OnDestroy.
type scriptState struct {
	initialized bool
	disabled    bool
	destroyed   bool
}

// BehaviorSystem drives every Script component through its lifecycle.
// It depends only on the Behavior interface; what a behavior does is irrelevant here.
// Call order is registry order, every tick.
type BehaviorSystem struct {
	registry *Registry
	log      *zap.Logger
	policy   FaultPolicy
	states   *intmap.Map[EntityId, *scriptState]
	started  bool
	tornDown bool
	faults   int64
}

// BehaviorOption configures a BehaviorSystem.
type BehaviorOption func(*BehaviorSystem)

// WithFaultPolicy sets how behavior errors are handled.
func WithFaultPolicy(p FaultPolicy) BehaviorOption {
	return func(b *BehaviorSystem) {
		b.policy = p
	}
}

// WithBehaviorLogger overrides the registry's logger.
func WithBehaviorLogger(log *zap.Logger) BehaviorOption {
	return func(b *BehaviorSystem) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBehaviorSystem creates a dispatcher for the scripts in r and hooks entity
// removal so removed behaviors receive OnDestroy.
func NewBehaviorSystem(r *Registry, opts ...BehaviorOption) *BehaviorSystem {
	b := &BehaviorSystem{
		registry: r,
		log:      r.Logger(),
		states:   intmap.New[EntityId, *scriptState](64),
	}
	for _, opt := range opts {
		opt(b)
	}
	r.OnRemove(b.destroy)
	return b
}

// Policy returns the active fault policy.
func (b *BehaviorSystem) Policy() FaultPolicy {
	return b.policy
}

// Faults returns how many faults were isolated so far.
func (b *BehaviorSystem) Faults() int64 {
	return b.faults
}

// Start runs OnInit for every script currently in the registry, in order.
// Execute calls it on the first tick if it has not been called.
func (b *BehaviorSystem) Start() error {
	if b.started {
		return nil
	}
	b.started = true
	for e := range b.registry.All() {
		script, ok := Get[*Script](e)
		if !ok {
			continue
		}
		if err := b.initialize(e, script); err != nil {
			return err
		}
	}
	b.log.Debug("behaviors started", zap.Int("scripts", b.states.Len()))
	return nil
}

// Execute runs OnUpdate for every live script in registry order. Scripts added
// since the last tick are initialized first.
func (b *BehaviorSystem) Execute(frame *UpdateFrame) error {
	if b.tornDown {
		return nil
	}
	if !b.started {
		if err := b.Start(); err != nil {
			return err
		}
	}

	for e := range b.registry.All() {
		script, ok := Get[*Script](e)
		if !ok {
			continue
		}

		state := b.state(e)
		if !state.initialized {
			if err := b.initialize(e, script); err != nil {
				return err
			}
		}
		if state.disabled || state.destroyed {
			continue
		}

		if err := script.Behavior.OnUpdate(e, b.registry, frame.DeltaTime); err != nil {
			if fault := b.fault(e, PhaseUpdate, err, frame.Tick); fault != nil {
				return fault
			}
		}
	}
	return nil
}

// Teardown runs OnDestroy for every initialized script still in the registry,
// in registry order. Later calls do nothing.
func (b *BehaviorSystem) Teardown() {
	if b.tornDown {
		return
	}
	b.tornDown = true
	for e := range b.registry.All() {
		b.destroy(e)
	}
	b.log.Debug("behaviors torn down")
}

func (b *BehaviorSystem) state(e *Entity) *scriptState {
	st, ok := b.states.Get(e.id)
	if !ok {
		st = &scriptState{}
		b.states.Put(e.id, st)
	}
	return st
}

func (b *BehaviorSystem) initialize(e *Entity, script *Script) error {
	state := b.state(e)
	if state.initialized {
		return nil
	}
	state.initialized = true

	if bb, ok := script.Behavior.(binder); ok {
		bb.bind(e)
	}

	if err := script.Behavior.OnInit(e, b.registry); err != nil {
		state.disabled = true
		return b.fault(e, PhaseInit, err, 0)
	}
	return nil
}

// fault applies the policy. It returns nil when the fault was isolated.
func (b *BehaviorSystem) fault(e *Entity, phase Phase, err error, tick uint64) error {
	f := &BehaviorFault{Entity: e.String(), Index: e.index, Phase: phase, Err: err}
	if b.policy == FaultHalt {
		return f
	}
	b.faults++
	b.log.Warn("behavior fault isolated",
		zap.String("entity", f.Entity),
		zap.Int("index", f.Index),
		zap.String("phase", string(phase)),
		zap.Uint64("tick", tick),
		zap.Error(err),
	)
	return nil
}

// destroy runs OnDestroy at most once for a script whose OnInit succeeded.
func (b *BehaviorSystem) destroy(e *Entity) {
	script, ok := Get[*Script](e)
	if !ok {
		return
	}
	state, ok := b.states.Get(e.id)
	if !ok || !state.initialized || state.disabled || state.destroyed {
		return
	}
	state.destroyed = true
	if d, ok := script.Behavior.(Destroyer); ok {
		d.OnDestroy(e)
	}
}
