// SPDX-License-Identifier: EPL-2.0

// Package asiocap captures one input channel of an ASIO driver on Windows.
//
// ASIO hands the host full scale int32 blocks on the driver thread. Each
// block is converted into a float32 scratch buffer that is reused for the
// next callback, then delivered to the sink.
package asiocap

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/engine"
	"github.com/symboxtra/SplitSound/frame"
	"github.com/symboxtra/SplitSound/utils"
)

// ErrUnavailable is returned by New on platforms without ASIO.
var ErrUnavailable = errors.New("asiocap: ASIO is only available on windows")

// Config selects the driver and the captured channel.
type Config struct {
	// Driver is the ASIO driver name as listed by the system.
	Driver     string
	SampleRate float64
	InChannel  int

	Logger *zap.Logger
}

func (c Config) withDefaults() (Config, error) {
	if c.Driver == "" || c.SampleRate < 0 || c.InChannel < 0 {
		return c, fmt.Errorf("%w: driver %q at %g Hz, channel %d", engine.ErrInvalidConfig, c.Driver, c.SampleRate, c.InChannel)
	}
	if c.SampleRate == 0 {
		c.SampleRate = 44100
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c, nil
}

// converter turns driver blocks into views over a reused buffer.
type converter struct {
	channel int
	scratch []float32
	blocks  uint64
}

// deliver converts in[channel] and hands it to sink. A block that lacks
// the channel is delivered empty.
func (c *converter) deliver(in [][]int32, sink engine.Sink) {
	c.blocks++
	if c.channel >= len(in) {
		sink.Deliver(frame.View{})
		return
	}

	block := in[c.channel]
	if cap(c.scratch) < len(block) {
		c.scratch = make([]float32, len(block))
	}
	buf := c.scratch[:len(block)]
	for i, v := range block {
		buf[i] = utils.Int32ToFloat32(v)
	}
	sink.Deliver(frame.Of(buf))
}
