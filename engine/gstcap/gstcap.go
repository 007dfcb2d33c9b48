// SPDX-License-Identifier: EPL-2.0

//go:build gstreamer

package gstcap

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/frame"
)

// Engine is a GStreamer capture engine. Buffers are delivered on the
// appsink's streaming thread.
type Engine struct {
	cfg    Config
	logger *zap.Logger

	pipeline *gst.Pipeline
	appsink  *app.Sink
	pump     engine.Pump

	buffers atomic.Uint64
	empty   atomic.Uint64
}

var _ engine.Engine = (*Engine)(nil)

// New builds the pipeline without starting it.
func New(cfg Config) (*Engine, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	gst.Init(nil)

	pipeline, err := gst.NewPipeline("splitsound-" + uuid.NewString()[:8])
	if err != nil {
		return nil, fmt.Errorf("gstcap: create pipeline: %w", err)
	}

	src, err := gst.NewElement(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("gstcap: create %s: %w", cfg.Source, err)
	}
	if cfg.Device != "" {
		if err := src.SetProperty("device", cfg.Device); err != nil {
			return nil, fmt.Errorf("gstcap: set device: %w", err)
		}
	}
	for k, v := range cfg.Properties {
		if err := src.SetProperty(k, v); err != nil {
			return nil, fmt.Errorf("gstcap: set %s: %w", k, err)
		}
	}

	convert, err := gst.NewElement("audioconvert")
	if err != nil {
		return nil, fmt.Errorf("gstcap: create audioconvert: %w", err)
	}
	resample, err := gst.NewElement("audioresample")
	if err != nil {
		return nil, fmt.Errorf("gstcap: create audioresample: %w", err)
	}
	capsfilter, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("gstcap: create capsfilter: %w", err)
	}
	capsfilter.SetProperty("caps", gst.NewCapsFromString(cfg.Caps()))

	appsink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("gstcap: create appsink: %w", err)
	}
	appsink.SetProperty("sync", false)

	pipeline.AddMany(src, convert, resample, capsfilter, appsink.Element)
	if err := gst.ElementLinkMany(src, convert, resample, capsfilter, appsink.Element); err != nil {
		return nil, fmt.Errorf("gstcap: link pipeline: %w", err)
	}

	return &Engine{
		cfg:      cfg,
		logger:   cfg.Logger.With(zap.String("source", cfg.Source)),
		pipeline: pipeline,
		appsink:  appsink,
	}, nil
}

// Buffers returns how many buffers were delivered.
func (e *Engine) Buffers() uint64 { return e.buffers.Load() }

// Start implements engine.Engine.
func (e *Engine) Start(ctx context.Context, sink engine.Sink) error {
	if sink == nil {
		return engine.ErrNilSink
	}

	e.appsink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(s *app.Sink) gst.FlowReturn {
			return e.onSample(s, sink)
		},
	})

	return e.pump.Start(ctx, func(ctx context.Context) error {
		defer e.pipeline.SetState(gst.StateNull)

		if err := e.pipeline.SetState(gst.StatePlaying); err != nil {
			return fmt.Errorf("gstcap: start pipeline: %w", err)
		}
		e.logger.Info("capture started", zap.String("caps", e.cfg.Caps()))

		return e.watchBus(ctx)
	})
}

// Stop implements engine.Engine.
func (e *Engine) Stop() error { return e.pump.Stop() }

// Done is closed when the pipeline has stopped.
func (e *Engine) Done() <-chan struct{} { return e.pump.Done() }

// onSample hands the mapped buffer to the sink without copying it and
// unmaps it after Deliver returns. MapInfo.Bytes copies; the view points at
// MapInfo.Data.
func (e *Engine) onSample(s *app.Sink, sink engine.Sink) gst.FlowReturn {
	sample := s.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	defer buffer.Unmap()

	count := uint32(mapInfo.Size() / 4)
	if count == 0 || mapInfo.Data() == nil {
		e.empty.Add(1)
		sink.Deliver(frame.View{})
		return gst.FlowOK
	}

	sink.Deliver(frame.FromPointer((*float32)(mapInfo.Data()), count))
	e.buffers.Add(1)
	return gst.FlowOK
}

func (e *Engine) watchBus(ctx context.Context) error {
	bus := e.pipeline.GetPipelineBus()

	for {
		if ctx.Err() != nil {
			e.logger.Info("capture stopped", zap.Uint64("buffers", e.buffers.Load()))
			return nil
		}

		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			e.logger.Info("capture finished", zap.Uint64("buffers", e.buffers.Load()))
			return nil
		case gst.MessageError:
			gerr := msg.ParseError()
			e.logger.Error("pipeline error",
				zap.String("error", gerr.Error()),
				zap.String("debug", gerr.DebugString()),
			)
			return fmt.Errorf("gstcap: %s", gerr.Error())
		}
	}
}
