package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/plus3/seascene/ecs"
	"github.com/plus3/seascene/ecs/debugui"
	debugui_ebiten "github.com/plus3/seascene/ecs/debugui/ebiten"
	"github.com/plus3/seascene/input"
	"github.com/plus3/seascene/internal/app"
	"github.com/plus3/seascene/internal/config"
	"github.com/plus3/seascene/internal/injector"
	"github.com/plus3/seascene/render"
	"github.com/plus3/seascene/render/ebitenrender"
	"github.com/plus3/seascene/render/tty"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file. Defaults are used when empty.")
	renderer := flag.String("renderer", "", "Renderer to use: ebiten, tty or headless. Overrides the config.")
	ticks := flag.Int("ticks", -1, "Stop after this many ticks, 0 runs until quit. Overrides the config.")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the working directory.")
	gui := flag.Bool("gui", true, "Show the debug overlay in the ebiten renderer.")
	flag.Parse()

	cfg, err := loadConfig(*configPath, *renderer, *ticks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	switch *profileMode {
	case "", "cpu", "mem":
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileMode)
		os.Exit(2)
	}

	os.Exit(run(cfg, *gui, *profileMode, "."))
}

func loadConfig(path, renderer string, ticks int) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if renderer != "" {
		cfg.Loop.Renderer = renderer
	}
	if ticks >= 0 {
		cfg.Loop.Ticks = ticks
	}
	return cfg, cfg.Validate()
}

// startProfile starts the cpu or mem profiler writing into dir.
func startProfile(mode, dir string) (stop func()) {
	switch mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath(dir), profile.Quiet).Stop
	}
	return func() {}
}

// run owns every deferred cleanup, including the profiler, and returns the exit code.
func run(cfg *config.Config, gui bool, profileMode, profileDir string) int {
	defer startProfile(profileMode, profileDir)()

	c, err := injector.Initialize(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		return 1
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Load(ctx); err != nil {
		describeFailure(os.Stderr, "scene declaration failed", err)
		return 1
	}
	pipeline, err := render.Assemble(c.Registry)
	if err != nil {
		describeFailure(os.Stderr, "render pipeline assembly failed", err)
		return 1
	}
	if err := c.Start(); err != nil {
		describeFailure(os.Stderr, "behavior init failed", err)
		return 1
	}
	c.Log.Info("scene started",
		zap.String("renderer", cfg.Loop.Renderer),
		zap.Int("passes", len(pipeline.Passes)),
		zap.Stringer("camera", pipeline.Camera),
	)

	switch cfg.Loop.Renderer {
	case "headless":
		err = runHeadless(ctx, c, os.Stdout)
	case "tty":
		err = runTerminal(ctx, c, pipeline)
	default:
		err = runWindow(c, pipeline, gui)
	}
	if err != nil {
		describeFailure(os.Stderr, "frame loop halted", err)
		return 1
	}
	return 0
}

// runHeadless ticks as fast as possible with a fixed step and prints a report.
// With no tick limit it runs in real time until interrupted.
func runHeadless(ctx context.Context, c *app.Context, w io.Writer) error {
	report := &Report{Renderer: "headless"}
	runtime.ReadMemStats(&report.MemStatsStart)
	start := time.Now()

	limit := c.Config.Loop.Ticks
	if limit == 0 {
		if err := c.Scheduler.Run(ctx, c.Config.Loop.Interval()); err != nil {
			return err
		}
	} else {
		dt := c.Config.Loop.Interval().Seconds()
		for i := 0; i < limit && ctx.Err() == nil; i++ {
			if err := c.Scheduler.Once(dt); err != nil {
				return err
			}
		}
	}

	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Collect(c, time.Since(start))
	return report.Generate(w)
}

func runTerminal(ctx context.Context, c *app.Context, pipeline *render.Pipeline) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}

	renderer := tty.New(screen, pipeline, tty.WithLogger(c.Log))
	renderer.Listen()
	c.Scheduler.Register(renderer)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.Scheduler.Register(&stopper{limit: uint64(c.Config.Loop.Ticks), cancel: cancel})

	return c.Scheduler.Run(ctx, c.Config.Loop.Interval())
}

func runWindow(c *app.Context, pipeline *render.Pipeline, gui bool) error {
	renderer := ebitenrender.New(pipeline, c.Log)
	c.Scheduler.Register(renderer)

	game := &ebitenrender.Game{
		Scheduler: c.Scheduler,
		Renderer:  renderer,
		MaxTicks:  uint64(c.Config.Loop.Ticks),
	}
	if gui {
		game.Backend = debugui_ebiten.Install(c.Registry, c.Config.Window.Title, c.Config.Window.Width, c.Config.Window.Height)
		c.Scheduler.Register(debugui.New(c.Scheduler))
	}
	return ebitenrender.Run(game, c.Config.Window.Title, c.Config.Window.Width, c.Config.Window.Height, c.Config.Loop.TickRate)
}

// stopper cancels the frame loop on a quit request or once the tick limit is reached.
type stopper struct {
	Input ecs.Singleton[input.State]

	limit  uint64
	cancel context.CancelFunc
}

func (s *stopper) Execute(frame *ecs.UpdateFrame) error {
	if state := s.Input.Get(); state != nil && state.Quit {
		s.cancel()
	}
	if s.limit > 0 && frame.Tick >= s.limit {
		s.cancel()
	}
	return nil
}

// describeFailure prints one line per underlying problem, naming the entity index
// and role where the error carries them.
func describeFailure(w io.Writer, what string, err error) {
	fmt.Fprintf(w, "%s:\n", what)
	for _, e := range multierr.Errors(err) {
		var dup *ecs.DuplicateRoleError
		var scene *ecs.SceneError
		var fault *ecs.BehaviorFault
		switch {
		case errors.As(e, &scene) && errors.As(scene.Err, &dup):
			fmt.Fprintf(w, "  - entity #%d (%s) declares role %s twice\n", scene.Index, scene.Entity, dup.Role)
		case errors.As(e, &scene):
			fmt.Fprintf(w, "  - entity #%d (%s): %v\n", scene.Index, scene.Entity, scene.Err)
		case errors.As(e, &dup):
			fmt.Fprintf(w, "  - entity %q declares role %s twice\n", dup.Entity, dup.Role)
		case errors.As(e, &fault):
			fmt.Fprintf(w, "  - entity #%d (%s) %s: %v\n", fault.Index, fault.Entity, fault.Phase, fault.Err)
		default:
			fmt.Fprintf(w, "  - %v\n", e)
		}
	}
}
