// SPDX-License-Identifier: EPL-2.0

package dispatch_test

import (
	"fmt"

	"github.com/symboxtra/SplitSound/dispatch"
	"github.com/symboxtra/SplitSound/frame"
	"github.com/symboxtra/SplitSound/registry"
)

func Example() {
	reg := registry.New()
	d := dispatch.New(reg, dispatch.Inline{})

	// No callback yet: the frame is skipped
	d.OnDelivery(frame.Of([]float32{1, 2}))

	reg.Register(func(samples []float64, count uint32) {
		fmt.Println(count, samples)
	})
	d.OnDelivery(frame.Of([]float32{0.5, 0.25, 0.125}))
	d.OnDelivery(frame.Of(nil))

	fmt.Println(d.Stats())
	// Output:
	// 3 [0.5 0.25 0.125]
	// 0 []
	// delivered=3 invoked=2 skipped=1 stale=0 panics=0 rejected=0
}
