// SPDX-License-Identifier: EPL-2.0

//go:build !gstreamer

package gstcap

import (
	"context"

	"github.com/symboxtra/SplitSound/engine"
)

// Engine is unavailable in this build.
type Engine struct{}

var _ engine.Engine = (*Engine)(nil)

// New validates cfg and reports ErrUnavailable.
func New(cfg Config) (*Engine, error) {
	if _, err := cfg.withDefaults(); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

func (*Engine) Start(context.Context, engine.Sink) error { return ErrUnavailable }
func (*Engine) Stop() error                              { return nil }
