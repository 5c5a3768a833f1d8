package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/chitin/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds engine configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Kernel  KernelConfig  `yaml:"kernel"`
	Physics PhysicsConfig `yaml:"physics"`
	Server  ServerConfig  `yaml:"server"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type KernelConfig struct {
	TargetFPS float64 `yaml:"target_fps"`
	Timescale float64 `yaml:"timescale"`
}

type PhysicsConfig struct {
	// ResolveScale is the share of a correction applied to each shape by
	// the default collide callback.
	ResolveScale float64 `yaml:"resolve_scale"`
	// PublishContacts sends a bus event for every overlapping pair.
	PublishContacts bool `yaml:"publish_contacts"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// SendBuffer is the number of frames queued per client before the
	// client is dropped.
	SendBuffer int `yaml:"send_buffer"`
}

func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: log.LevelInfo.String()},
		Kernel:  KernelConfig{TargetFPS: 30, Timescale: 1},
		Physics: PhysicsConfig{ResolveScale: 0.5},
		Server: ServerConfig{
			Addr:         ":8080",
			WriteTimeout: 5 * time.Second,
			SendBuffer:   16,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Kernel.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("kernel.target_fps must be positive, got %v", c.Kernel.TargetFPS))
	}
	if c.Kernel.Timescale < 0 {
		errs = append(errs, fmt.Errorf("kernel.timescale must not be negative, got %v", c.Kernel.Timescale))
	}
	if c.Physics.ResolveScale < 0 || c.Physics.ResolveScale > 1 {
		errs = append(errs, fmt.Errorf("physics.resolve_scale must be within [0, 1], got %v", c.Physics.ResolveScale))
	}
	if c.Server.SendBuffer < 1 {
		errs = append(errs, fmt.Errorf("server.send_buffer must be at least 1, got %d", c.Server.SendBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel is the parsed log level. Call Validate first.
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.LevelInfo
	}
	return l
}
