package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Ticks           uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler is the frame-loop driver. Each tick it executes its systems in
// registration order (behaviors, then physics, then rendering) and then flushes
// the deferred commands. It is single-threaded: nothing runs in parallel within a tick.
type Scheduler struct {
	registry    *Registry
	log         *zap.Logger
	commands    *Commands
	systems     []System
	systemStats []*systemStatsInternal
	tick        uint64
	closed      bool
}

// NewScheduler creates a new scheduler for the given registry.
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		registry: registry,
		log:      registry.Logger(),
		commands: newCommands(),
		systems:  make([]System, 0),
	}
}

// Registry returns the registry the scheduler drives.
func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Commands returns the buffer flushed at the end of every tick.
func (s *Scheduler) Commands() *Commands {
	return s.commands
}

// Register adds a system to the scheduler and initializes its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	s.initializeFields(system)
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func (s *Scheduler) initializeFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		if !strings.HasPrefix(typeName, "Query[") && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.registry)})
	}
}

// Once executes all registered systems once with the given delta time, then flushes
// queued commands. A system error stops the tick and is returned after the flush.
func (s *Scheduler) Once(dt float64) error {
	if s.closed {
		return errors.New("scheduler is closed")
	}

	s.tick++
	frame := newUpdateFrame(dt, s.tick, s.registry, s.commands)

	var runErr error
	for i, system := range s.systems {
		start := time.Now()
		err := system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}

		if err != nil {
			runErr = errors.Wrapf(err, "tick %d: system %s", s.tick, stats.name)
			break
		}
	}

	s.commands.Flush(s.registry)
	return runErr
}

// Run executes all systems repeatedly at the given interval until the context is
// cancelled or a tick fails. Cancellation is not an error.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := s.Once(dt); err != nil {
				s.log.Error("frame loop halted", zap.Uint64("tick", s.tick), zap.Error(err))
				return err
			}
		}
	}
}

// Close tears down every system that implements Teardowner, in registration order.
// It is safe to call more than once.
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, system := range s.systems {
		if t, ok := system.(Teardowner); ok {
			t.Teardown()
		}
	}
	s.log.Debug("scheduler closed", zap.Uint64("ticks", s.tick))
}

// Tick returns the number of ticks executed so far.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.tick,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
