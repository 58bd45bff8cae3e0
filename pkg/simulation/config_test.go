package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "partial file keeps defaults",
			json: `{"numBoids": 12, "params": {"cohesionWeight": 0.5}}`,
			check: func(t *testing.T, c *Config) {
				if c.NumBoids != 12 || c.Params.CohesionWeight != 0.5 {
					t.Errorf("overrides not applied: %+v", c)
				}
				if c.WorldWidth != 16 || c.Params.TurnRate != 240 {
					t.Errorf("defaults lost: width %v turnRate %v", c.WorldWidth, c.Params.TurnRate)
				}
			},
		},
		{
			name: "obstacles replace defaults",
			json: `{"obstacles": [{"x": 2, "y": 2, "width": 0.5, "height": 0.5}]}`,
			check: func(t *testing.T, c *Config) {
				if len(c.Obstacles) != 1 || c.Obstacles[0].X != 2 {
					t.Errorf("obstacles = %+v", c.Obstacles)
				}
			},
		},
		{name: "schema rejects negative count", json: `{"numBoids": -1}`, wantErr: true},
		{name: "schema rejects unknown field", json: `{"boidColour": "red"}`, wantErr: true},
		{name: "schema rejects escape angle of 180", json: `{"params": {"initialEscapeAngle": 180}}`, wantErr: true},
		{name: "obstacle outside world", json: `{"obstacles": [{"x": 99, "y": 2, "width": 1, "height": 1}]}`, wantErr: true},
		{name: "not json", json: `{numBoids:`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.json", tt.json)
			cfg, err := LoadConfig(path, "")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadConfig succeeded with %+v; want an error", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "config.json"), "config.schema.json")
	if err != nil {
		t.Fatalf("shipped config: %v", err)
	}
	if cfg.NumBoids != 100 || cfg.Params.EscapeSteps != 6 {
		t.Errorf("unexpected shipped values: %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"), ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file = %v; want os.ErrNotExist", err)
	}
	path := writeFile(t, "config.json", `{"tickRate": 60, "edgeThickness": 1, "worldWidth": 4, "obstacles": [{"x": 6, "y": 1, "width": 1, "height": 1}]}`)
	if _, err := LoadConfig(path, ""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("obstacle outside a narrow world = %v; want ErrInvalidConfig", err)
	}
}
