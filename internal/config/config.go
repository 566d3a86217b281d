// Package config loads the game's YAML settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"shadowplay/internal/shadow"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the game looks for its config when none is given.
const DefaultPath = "assets/config/shadowplay.yaml"

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Scene   string        `yaml:"scene"`
	Shadow  ShadowConfig  `yaml:"shadow"`
	Logging LoggingConfig `yaml:"logging"`
}

type WindowConfig struct {
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int32  `yaml:"fps"`
}

// ShadowConfig holds the defaults every shadow caster starts from. Scene
// props override them per caster.
type ShadowConfig struct {
	Material          string  `yaml:"material"`
	ReverseTriWinding bool    `yaml:"reverse_tri_winding"`
	ScaleWidth        float32 `yaml:"scale_width"`
	ScaleHeight       float32 `yaml:"scale_height"`
	TriggerDistance   float32 `yaml:"trigger_distance"`
	SkewAmount        float32 `yaml:"skew_amount"`
	Subdivisions      int     `yaml:"subdivisions"`
	Facing            string  `yaml:"facing"`
	SkewMode          string  `yaml:"skew_mode"`
	Lifted            bool    `yaml:"lifted"`
	CreateOnStart     bool    `yaml:"create_on_start"`
	EyeHeight         float32 `yaml:"eye_height"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	sc := shadow.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "shadowplay",
			FPS:    60,
		},
		Scene: "assets/scenes/level1.json",
		Shadow: ShadowConfig{
			Material:          sc.Material,
			ReverseTriWinding: sc.ReverseTriWinding,
			ScaleWidth:        sc.ScaleWidth,
			ScaleHeight:       sc.ScaleHeight,
			TriggerDistance:   sc.TriggerDistance,
			SkewAmount:        sc.SkewAmount,
			Subdivisions:      sc.Subdivisions,
			Facing:            sc.Facing.String(),
			SkewMode:          sc.SkewMode.String(),
			Lifted:            sc.Lifted,
			CreateOnStart:     sc.CreateOnStart,
			EyeHeight:         sc.EyeHeight,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; keys the file leaves out keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Use defaults if the config file doesn't exist
		data = nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides lets SHADOWPLAY_LOG_LEVEL and SHADOWPLAY_SCENE win over
// the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHADOWPLAY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SHADOWPLAY_SCENE"); v != "" {
		c.Scene = v
	}
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if _, err := c.Shadow.Engine(); err != nil {
		return fmt.Errorf("shadow: %w", err)
	}
	return nil
}

// Engine converts the YAML form into the shadow engine's tuning.
func (s ShadowConfig) Engine() (shadow.Config, error) {
	facing, err := shadow.ParseFacingMode(s.Facing)
	if err != nil {
		return shadow.Config{}, err
	}
	skewMode, err := shadow.ParseSkewMode(s.SkewMode)
	if err != nil {
		return shadow.Config{}, err
	}
	cfg := shadow.Config{
		Material:          s.Material,
		ReverseTriWinding: s.ReverseTriWinding,
		ScaleWidth:        s.ScaleWidth,
		ScaleHeight:       s.ScaleHeight,
		TriggerDistance:   s.TriggerDistance,
		SkewAmount:        s.SkewAmount,
		Subdivisions:      s.Subdivisions,
		Facing:            facing,
		SkewMode:          skewMode,
		Lifted:            s.Lifted,
		CreateOnStart:     s.CreateOnStart,
		EyeHeight:         s.EyeHeight,
	}
	if err := cfg.Validate(); err != nil {
		return shadow.Config{}, err
	}
	return cfg, nil
}
