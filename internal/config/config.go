// Package config loads and validates the simulation configuration.
// Defaults reproduce the reference run: a 300x300 grid, 20 simulated seconds
// plotted every 0.5 s, progress reported every 10 real seconds.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Plot modes.
const (
	PlotTerminal = "terminal"
	PlotImages   = "images"
	PlotNone     = "none"
)

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreBadger = "badger"
)

// Config contains every simulation setting.
type Config struct {
	// Rows and Cols give the grid shape in nodes.
	Rows    int     `yaml:"rows" validate:"gte=1"`
	Cols    int     `yaml:"cols" validate:"gte=1"`
	Spacing float64 `yaml:"spacing" validate:"gt=0"`

	// FractureSpacing sets the fracture density: (rows+cols)/fracture_spacing lines.
	FractureSpacing int `yaml:"fracture_spacing" validate:"gte=1"`

	// Seed fixes the fracture pattern and the event sequence. 0 means non-reproducible.
	Seed int64 `yaml:"seed"`

	// PlotInterval and RunDuration are in simulated seconds.
	PlotInterval float64 `yaml:"plot_interval" validate:"gt=0"`
	RunDuration  float64 `yaml:"run_duration" validate:"gte=0"`

	// ReportInterval is wall-clock time between progress messages.
	ReportInterval time.Duration `yaml:"report_interval" validate:"gt=0"`

	Colors ColorsConfig `yaml:"colors"`
	Plot   PlotConfig   `yaml:"plot"`
	Store  StoreConfig  `yaml:"store"`
	Serve  ServeConfig  `yaml:"serve"`
	Log    LogConfig    `yaml:"log"`
}

// ColorsConfig is the two-colour listed colormap, indexed by node state.
type ColorsConfig struct {
	Fluid string `yaml:"fluid" validate:"hexcolor"` // State 0
	Grain string `yaml:"grain" validate:"hexcolor"` // State 1
}

// PlotConfig selects how frames are displayed.
type PlotConfig struct {
	Mode   string `yaml:"mode" validate:"oneof=terminal images none"`
	OutDir string `yaml:"out_dir"`
	Frames bool   `yaml:"frames"`
	Movie  bool   `yaml:"movie"`
	FPS    int    `yaml:"fps" validate:"gte=1,lte=120"`
	Scale  int    `yaml:"scale" validate:"gte=1,lte=16"`
}

// StoreConfig selects where frames are persisted.
type StoreConfig struct {
	Kind   string       `yaml:"kind" validate:"oneof=none memory redis badger"`
	Redis  RedisConfig  `yaml:"redis"`
	Badger BadgerConfig `yaml:"badger"`
}

// RedisConfig configures the redis frame store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	LockTTL  time.Duration `yaml:"lock_ttl" validate:"gte=0"`
}

// BadgerConfig configures the badger frame store.
type BadgerConfig struct {
	Dir string `yaml:"dir"`
}

// ServeConfig configures the HTTP live view. Empty Addr disables it.
type ServeConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Rows:            300,
		Cols:            300,
		Spacing:         1.0,
		FractureSpacing: 10,
		PlotInterval:    0.5,
		RunDuration:     20.0,
		ReportInterval:  10 * time.Second,
		Colors: ColorsConfig{
			Fluid: "#D0E4F2",
			Grain: "#5F594D",
		},
		Plot: PlotConfig{
			Mode:   PlotTerminal,
			OutDir: "out",
			FPS:    10,
			Scale:  2,
		},
		Store: StoreConfig{
			Kind: StoreNone,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "regolith:frame:",
				LockTTL: time.Hour,
			},
			Badger: BadgerConfig{Dir: ".regolith/frames"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyOverrides applies "key=value" pairs, using dotted yaml keys for nested fields
// (e.g. "plot_interval=0.25", "store.redis.addr=redis:6379").
func (c *Config) ApplyOverrides(pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	tree := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("%w: override %q is not key=value", domain.ErrInvalidConfig, pair)
		}
		node := tree
		parts := strings.Split(key, ".")
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           c,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(tree); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if len(md.Unused) > 0 {
		return fmt.Errorf("%w: unknown keys %v", domain.ErrInvalidConfig, md.Unused)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%w: %s fails %q (got %v)", domain.ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}
