// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var errConfig = errors.New("invalid config")

type Config struct {
	Engine struct {
		// Kind is file, synth, pattern, gst or asio.
		Kind string `yaml:"kind"`
		// Path is the input file for the file engine.
		Path string `yaml:"path"`
		// Source is the GStreamer source element.
		Source string `yaml:"source"`
		// Device is the GStreamer device or the ASIO driver name.
		Device  string `yaml:"device"`
		Channel int    `yaml:"channel"`

		SampleRate   int           `yaml:"sample_rate"`
		Channels     int           `yaml:"channels"`
		BufferFrames int           `yaml:"buffer_frames"`
		Realtime     bool          `yaml:"realtime"`
		Mono         bool          `yaml:"mono"`
		Freq         float64       `yaml:"freq"`
		Duration     time.Duration `yaml:"duration"`
	} `yaml:"engine"`

	Record struct {
		Path string `yaml:"path"`
	} `yaml:"record"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
		// File receives the log while the UI owns the terminal.
		File string `yaml:"file"`
	} `yaml:"log"`

	UI struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"ui"`
}

func DefaultConfig() *Config {
	var c Config
	c.Engine.Kind = "synth"
	c.Engine.Freq = 440
	c.Engine.Realtime = true
	c.Log.Level = "info"
	return &c
}

// LoadConfig reads filename over the defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}

// SetInput routes a command line input to the field the engine reads.
func (c *Config) SetInput(in string) {
	switch c.Engine.Kind {
	case "gst":
		c.Engine.Source = in
	case "asio":
		c.Engine.Device = in
	default:
		c.Engine.Path = in
	}
}

func (c *Config) Validate() error {
	switch c.Engine.Kind {
	case "file":
		if c.Engine.Path == "" {
			return fmt.Errorf("%w: file engine needs engine.path", errConfig)
		}
	case "synth", "pattern", "gst":
	case "asio":
		if c.Engine.Device == "" {
			return fmt.Errorf("%w: asio engine needs engine.device", errConfig)
		}
	default:
		return fmt.Errorf("%w: unknown engine %q", errConfig, c.Engine.Kind)
	}

	if c.Engine.SampleRate < 0 || c.Engine.Channels < 0 || c.Engine.BufferFrames < 0 {
		return fmt.Errorf("%w: negative engine format", errConfig)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	return nil
}

// Logger builds the process logger. With ui set the terminal belongs to the
// UI, so logs go to log.file or nowhere.
func (c *Config) Logger(ui bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if ui {
		if c.Log.File == "" {
			return zap.NewNop(), nil
		}
		zc.OutputPaths = []string{c.Log.File}
		zc.ErrorOutputPaths = []string{c.Log.File}
	} else if c.Log.File != "" {
		zc.OutputPaths = []string{c.Log.File}
	}

	return zc.Build()
}
