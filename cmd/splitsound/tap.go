// SPDX-License-Identifier: EPL-2.0

package main

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/symboxtra/SplitSound/meter"
	"github.com/symboxtra/SplitSound/record"
)

// tap is the registered callback: it feeds the meter, the optional
// recorder and, when verbose, one log line per delivery.
type tap struct {
	meter   *meter.Meter
	rec     *record.Recorder
	logger  *zap.Logger
	verbose bool
}

func (t *tap) Receive(samples []float64, count uint32) {
	t.meter.Receive(samples, count)
	if t.rec != nil {
		t.rec.Receive(samples, count)
	}
	if !t.verbose {
		return
	}

	levels := t.meter.Levels()
	fields := make([]zap.Field, 0, 1+len(levels))
	fields = append(fields, zap.Uint32("count", count))
	for i, l := range levels {
		fields = append(fields, zap.Float64(channelName(i, len(levels)), l.RMSdBFS))
	}
	t.logger.Info("delivery", fields...)
}

// Close finalizes the recording when the callback is released.
func (t *tap) Close() error {
	if t.rec == nil {
		return nil
	}
	return t.rec.Close()
}

func channelName(i, n int) string {
	if n == 2 {
		return [...]string{"left_dbfs", "right_dbfs"}[i]
	}
	if n == 1 {
		return "dbfs"
	}
	return "ch" + strconv.Itoa(i) + "_dbfs"
}
