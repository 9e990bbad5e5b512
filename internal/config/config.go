// Package config holds the yaml solve configuration shared by the CLI
// commands.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vuthalab/biot-savart/internal/geometry"
	"github.com/vuthalab/biot-savart/internal/grid"
)

const (
	DefaultCoilResolution   = 1.0
	DefaultVolumeResolution = 0.5
	DefaultBoxSize          = 10.0
	DefaultDataDir          = ".biotsavart"
)

type Config struct {
	Coils            []string   `yaml:"coils"`
	CoilResolution   float64    `yaml:"coil_resolution"`
	VolumeResolution float64    `yaml:"volume_resolution"`
	BoxSize          [3]float64 `yaml:"box_size"`
	StartPoint       [3]float64 `yaml:"start_point"`
	Workers          int        `yaml:"workers"`
	DataDir          string     `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		CoilResolution:   DefaultCoilResolution,
		VolumeResolution: DefaultVolumeResolution,
		BoxSize:          [3]float64{DefaultBoxSize, DefaultBoxSize, DefaultBoxSize},
		StartPoint:       [3]float64{-DefaultBoxSize / 2, -DefaultBoxSize / 2, -DefaultBoxSize / 2},
		DataDir:          DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the structural parameters before a solve starts.
func (c *Config) Validate() error {
	if c.CoilResolution <= 0 {
		return fmt.Errorf("coil resolution must be positive, got %g", c.CoilResolution)
	}
	if c.VolumeResolution <= 0 {
		return fmt.Errorf("volume resolution must be positive, got %g", c.VolumeResolution)
	}
	for i, v := range c.BoxSize {
		if v <= 0 {
			return fmt.Errorf("box size axis %d must be positive, got %g", i, v)
		}
	}
	return nil
}

// Grid builds the evaluation grid described by the configuration.
func (c *Config) Grid() (*grid.Grid, error) {
	return grid.New(
		geometry.Vec3{X: c.StartPoint[0], Y: c.StartPoint[1], Z: c.StartPoint[2]},
		geometry.Vec3{X: c.BoxSize[0], Y: c.BoxSize[1], Z: c.BoxSize[2]},
		c.VolumeResolution,
	)
}
