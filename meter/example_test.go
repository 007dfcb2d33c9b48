// SPDX-License-Identifier: EPL-2.0

package meter_test

import (
	"fmt"

	"github.com/symboxtra/SplitSound/meter"
)

func ExampleMeasure() {
	l := meter.Measure([]float64{0.5, -0.5, 0.5, -0.5})
	fmt.Printf("rms=%.2f peak=%.2f %.1f dBFS\n", l.RMS, l.Peak, l.RMSdBFS)

	// Output:
	// rms=0.50 peak=0.50 -6.0 dBFS
}
