// SPDX-License-Identifier: EPL-2.0

// Package gstcap captures audio with GStreamer.
//
// The pipeline is
//
//	<source> ! audioconvert ! audioresample ! capsfilter ! appsink
//
// with the caps fixed to interleaved F32LE, so every appsink buffer can be
// handed to the sink as a frame.View over the mapped memory. Building with
// GStreamer requires the gstreamer build tag; without it New returns
// ErrUnavailable.
package gstcap

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/engine"
)

// DefaultSource is the source element used when none is configured.
const DefaultSource = "autoaudiosrc"

// ErrUnavailable is returned by New in builds without GStreamer.
var ErrUnavailable = errors.New("gstcap: built without gstreamer support")

// Config selects the capture input and format.
type Config struct {
	// Source is the GStreamer source element factory, e.g. pulsesrc.
	Source string
	// Device is set as the source's "device" property when not empty.
	Device string
	// Properties are extra properties for the source element.
	Properties map[string]any

	SampleRate int
	Channels   int

	Logger *zap.Logger
}

func (c Config) withDefaults() (Config, error) {
	if c.SampleRate < 0 || c.Channels < 0 {
		return c, fmt.Errorf("%w: %d Hz x%d", engine.ErrInvalidConfig, c.SampleRate, c.Channels)
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.Channels == 0 {
		c.Channels = 2
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c, nil
}

// Caps returns the caps the appsink accepts.
func (c Config) Caps() string {
	return fmt.Sprintf("audio/x-raw,format=F32LE,layout=interleaved,rate=%d,channels=%d", c.SampleRate, c.Channels)
}
