package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-boids-arena/pkg/behavior"
)

// ErrInvalidConfig wraps every semantic config error.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.schema.json
var configSchema []byte

const embeddedSchemaURL = "config.schema.json"

// ObstacleConfig is a rectangular obstacle centred on (X, Y).
type ObstacleConfig struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Config struct {
	// World dimensions, in world units (y up)
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`
	// Thickness of the four wrap edges laid just outside the world
	EdgeThickness float64 `json:"edgeThickness"`

	// Population
	NumBoids   int     `json:"numBoids"`
	BoidWidth  float64 `json:"boidWidth"`
	BoidHeight float64 `json:"boidHeight"`
	// Seed for spawning; 0 picks a random one
	Seed uint64 `json:"seed"`

	Obstacles []ObstacleConfig `json:"obstacles"`

	// WrapCooldown is how long, in seconds, an edge ignores an agent it
	// just teleported.
	WrapCooldown float64 `json:"wrapCooldown"`
	// TickRate is the number of ticks per simulated second.
	TickRate int `json:"tickRate"`

	// PixelsPerUnit scales the world onto the screen.
	PixelsPerUnit float64 `json:"pixelsPerUnit"`

	Params behavior.Params `json:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:    16,
		WorldHeight:   9,
		EdgeThickness: 1,
		NumBoids:      100,
		BoidWidth:     0.1,
		BoidHeight:    0.2,
		Obstacles: []ObstacleConfig{
			{X: 5, Y: 4.5, Width: 1, Height: 2},
			{X: 11, Y: 3, Width: 1.5, Height: 1.5},
		},
		WrapCooldown:  behavior.DefaultCooldown,
		TickRate:      60,
		PixelsPerUnit: 80,
		Params:        behavior.DefaultParams(),
	}
}

// TickSeconds is the fixed step length.
func (c *Config) TickSeconds() float64 {
	return 1 / float64(c.TickRate)
}

// Validate checks what the schema cannot: cross field constraints and
// obstacles lying inside the world.
func (c *Config) Validate() error {
	var errs []error
	if !(c.WorldWidth > 0) || !(c.WorldHeight > 0) {
		errs = append(errs, fmt.Errorf("world size %vx%v must be positive", c.WorldWidth, c.WorldHeight))
	}
	if !(c.EdgeThickness > 0) {
		errs = append(errs, fmt.Errorf("edgeThickness %v must be positive", c.EdgeThickness))
	}
	if c.NumBoids < 0 {
		errs = append(errs, fmt.Errorf("numBoids %d must not be negative", c.NumBoids))
	}
	if !(c.BoidWidth > 0) || !(c.BoidHeight > 0) {
		errs = append(errs, fmt.Errorf("boid size %vx%v must be positive", c.BoidWidth, c.BoidHeight))
	}
	if c.WrapCooldown < 0 {
		errs = append(errs, fmt.Errorf("wrapCooldown %v must not be negative", c.WrapCooldown))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tickRate %d must be positive", c.TickRate))
	}
	for i, o := range c.Obstacles {
		if !(o.Width > 0) || !(o.Height > 0) {
			errs = append(errs, fmt.Errorf("obstacle %d size %vx%v must be positive", i, o.Width, o.Height))
		}
		if o.X < 0 || o.X > c.WorldWidth || o.Y < 0 || o.Y > c.WorldHeight {
			errs = append(errs, fmt.Errorf("obstacle %d centre (%v, %v) outside the world", i, o.X, o.Y))
		}
	}
	if err := c.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// compileSchema compiles schemaFile, or the embedded schema when it is empty.
func compileSchema(schemaFile string) (*jsonschema.Schema, error) {
	if schemaFile != "" {
		return jsonschema.Compile(schemaFile)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(embeddedSchemaURL, bytes.NewReader(configSchema)); err != nil {
		return nil, err
	}
	return c.Compile(embeddedSchemaURL)
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
// Fields missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := compileSchema(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct, over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
