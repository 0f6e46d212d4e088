// Package app holds the process-wide objects of one scene run and the providers
// that build them.
package app

import (
	"context"
	"os"

	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/plus3/seascene/assets"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/internal/config"
	"github.com/plus3/seascene/internal/logging"
	"github.com/plus3/seascene/physics"
	"github.com/plus3/seascene/scene"
	"go.uber.org/zap"
)

// Context is passed explicitly to everything that needs the run's shared state.
type Context struct {
	Config    *config.Config
	Log       *zap.Logger
	Registry  *ecs.Registry
	Scheduler *ecs.Scheduler
	Behaviors *ecs.BehaviorSystem
	Physics   *physics.System
	Loader    assets.Loader

	closed bool
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideBehaviors,
	ProvidePhysics,
	ProvideScheduler,
	ProvideLoader,
	New,
)

func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

func ProvideRegistry(log *zap.Logger) *ecs.Registry {
	return ecs.NewRegistry(ecs.WithLogger(log))
}

func ProvideBehaviors(r *ecs.Registry, cfg *config.Config, log *zap.Logger) (*ecs.BehaviorSystem, error) {
	policy, ok := ecs.ParseFaultPolicy(cfg.Loop.FaultPolicy)
	if !ok {
		return nil, errors.Errorf("unknown fault policy %q", cfg.Loop.FaultPolicy)
	}
	return ecs.NewBehaviorSystem(r, ecs.WithFaultPolicy(policy), ecs.WithBehaviorLogger(log)), nil
}

func ProvidePhysics(cfg *config.Config, log *zap.Logger) *physics.System {
	return physics.New(physics.Params{
		Gravity:    cfg.Physics.Gravity,
		WaterLevel: cfg.Physics.WaterLevel,
		Damping:    cfg.Physics.Damping,
	}, log)
}

// ProvideScheduler registers behaviors before physics. Renderers are registered
// by the caller once the pipeline is assembled, so they run last.
func ProvideScheduler(r *ecs.Registry, behaviors *ecs.BehaviorSystem, phys *physics.System) *ecs.Scheduler {
	s := ecs.NewScheduler(r)
	s.Register(behaviors)
	s.Register(phys)
	return s
}

func ProvideLoader(cfg *config.Config) (assets.Loader, error) {
	if cfg.Boat.Catalog == "" {
		return assets.Procedural{}, nil
	}
	f, err := os.Open(cfg.Boat.Catalog)
	if err != nil {
		return nil, errors.Wrap(err, "open model catalog")
	}
	defer f.Close()
	return assets.NewCatalog(f)
}

func New(
	cfg *config.Config,
	log *zap.Logger,
	r *ecs.Registry,
	s *ecs.Scheduler,
	behaviors *ecs.BehaviorSystem,
	phys *physics.System,
	loader assets.Loader,
) *Context {
	return &Context{
		Config:    cfg,
		Log:       log,
		Registry:  r,
		Scheduler: s,
		Behaviors: behaviors,
		Physics:   phys,
		Loader:    loader,
	}
}

// Load resolves every model the scene needs, then declares, registers and validates
// the scene. Nothing is registered if loading fails.
func (c *Context) Load(ctx context.Context) error {
	meshes, err := assets.LoadAll(ctx, c.Loader, scene.Models(c.Config))
	if err != nil {
		return err
	}
	if err := scene.Populate(c.Registry, c.Config, meshes); err != nil {
		return err
	}
	c.Log.Info("scene loaded",
		zap.Stringer("scene_id", c.Registry.ID()),
		zap.Int("entities", c.Registry.Len()),
		zap.Int("models", len(meshes)),
	)
	return nil
}

// Start runs every behavior's OnInit.
func (c *Context) Start() error {
	return c.Behaviors.Start()
}

// Close tears the scene down, delivering OnDestroy to every initialized script,
// then flushes the logger. It is safe to call more than once.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.Scheduler.Close()
	_ = c.Log.Sync()
}
