// Package config loads the scene runtime settings from YAML.
package config

import (
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration. Zero sections fall back to Default.
type Config struct {
	Window  Window  `yaml:"window"`
	Loop    Loop    `yaml:"loop"`
	Log     Log     `yaml:"log"`
	Camera  Camera  `yaml:"camera"`
	Boat    Boat    `yaml:"boat"`
	Physics Physics `yaml:"physics"`
	Post    Post    `yaml:"post"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Loop struct {
	// TickRate is the number of frame-loop ticks per second.
	TickRate int `yaml:"tick_rate"`
	// FaultPolicy is "halt" or "isolate".
	FaultPolicy string `yaml:"fault_policy"`
	// Ticks bounds a headless run. Zero runs until interrupted.
	Ticks    int    `yaml:"ticks"`
	Renderer string `yaml:"renderer"`
}

// Interval returns the wall-clock duration of one tick.
func (l Loop) Interval() time.Duration {
	if l.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(l.TickRate)
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type Camera struct {
	FovY      float32    `yaml:"fov"`
	Near      float32    `yaml:"near"`
	Far       float32    `yaml:"far"`
	FollowTag string     `yaml:"follow_tag"`
	Offset    mgl32.Vec3 `yaml:"offset"`
	// Smoothing is the fraction of the remaining distance closed per second. 0 snaps.
	Smoothing float32 `yaml:"smoothing"`
}

type Boat struct {
	Model string `yaml:"model"`
	// Catalog is a YAML model catalog the model is looked up in. Empty builds it procedurally.
	Catalog  string     `yaml:"catalog"`
	Scale    float32    `yaml:"scale"`
	Position mgl32.Vec3 `yaml:"position"`
	// FollowRate is how fast the follower entity chases the boat, in units per second.
	FollowRate float32 `yaml:"follow_rate"`
}

type Physics struct {
	Gravity    float32 `yaml:"gravity"`
	WaterLevel float32 `yaml:"water_level"`
	Damping    float32 `yaml:"damping"`
}

type Post struct {
	BloomIntensity float32 `yaml:"bloom_intensity"`
	FXAA           bool    `yaml:"fxaa"`
	SSAO           bool    `yaml:"ssao"`
}

var validRenderers = map[string]bool{"ebiten": true, "tty": true, "headless": true}

// Default returns the settings of the stock sea scene.
func Default() *Config {
	return &Config{
		Window: Window{Title: "seascene", Width: 1280, Height: 720},
		Loop:   Loop{TickRate: 60, FaultPolicy: "halt", Renderer: "ebiten"},
		Log:    Log{Level: "info", Encoding: "console"},
		Camera: Camera{
			FovY:      75,
			Near:      0.1,
			Far:       1000,
			FollowTag: "Follower",
			Offset:    mgl32.Vec3{0, 15, 30},
		},
		Boat: Boat{
			Model:      "boat",
			Scale:      3,
			Position:   mgl32.Vec3{0, 10, 0},
			FollowRate: 4,
		},
		Physics: Physics{Gravity: -9.81, WaterLevel: 0, Damping: 0.1},
		Post:    Post{BloomIntensity: 0, FXAA: true, SSAO: true},
	}
}

// Load decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and decodes the file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, errors.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Loop.TickRate > 0, "loop: tick_rate %d must be positive", c.Loop.TickRate)
	check(c.Loop.Ticks >= 0, "loop: ticks %d must not be negative", c.Loop.Ticks)
	check(c.Loop.FaultPolicy == "halt" || c.Loop.FaultPolicy == "isolate",
		"loop: fault_policy %q must be halt or isolate", c.Loop.FaultPolicy)
	check(validRenderers[c.Loop.Renderer], "loop: unknown renderer %q", c.Loop.Renderer)
	check(c.Log.Encoding == "json" || c.Log.Encoding == "console",
		"log: encoding %q must be json or console", c.Log.Encoding)
	check(c.Camera.FovY > 0 && c.Camera.FovY < 180, "camera: fov %g out of range (0, 180)", c.Camera.FovY)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far, "camera: need 0 < near (%g) < far (%g)", c.Camera.Near, c.Camera.Far)
	check(c.Camera.Smoothing >= 0, "camera: smoothing %g must not be negative", c.Camera.Smoothing)
	check(c.Camera.FollowTag != "", "camera: follow_tag is required")
	check(c.Boat.Model != "", "boat: model is required")
	check(c.Boat.Scale > 0, "boat: scale %g must be positive", c.Boat.Scale)
	check(c.Boat.FollowRate >= 0, "boat: follow_rate %g must not be negative", c.Boat.FollowRate)
	check(c.Physics.Damping >= 0 && c.Physics.Damping <= 1, "physics: damping %g out of range [0, 1]", c.Physics.Damping)
	check(c.Post.BloomIntensity >= 0, "post: bloom_intensity %g must not be negative", c.Post.BloomIntensity)
	return err
}
