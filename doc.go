// SPDX-License-Identifier: EPL-2.0

// Package splitsound connects an audio capture engine to a single host
// callback.
//
// Engines produce float32 buffers on goroutines or native threads they own.
// The host wants those buffers as []float64 values, one call at a time, on
// its own execution context. A Bridge sits in between:
//
//	engine goroutine               host context
//	----------------               ------------
//	Deliver(frame.View)
//	  copy to []float64
//	  Post(task) ----------------> task: still current?
//	                                 callback(samples, count)
//
// The view is copied before Deliver returns, so engines may reuse their
// buffers immediately. Deliveries reach the callback in the order they
// were made. Replacing or removing the callback discards every delivery
// still queued for the old one, and the old callback's resources are
// released once no call to it is running.
//
// # Quick Start
//
//	loop := hostloop.New()
//	b := splitsound.New(loop)
//
//	b.SetCallback(func(samples []float64, count uint32) {
//		fmt.Println(count)
//	})
//
//	e, _ := filecap.Open(filecap.Config{Path: "in.wav", Realtime: true})
//	b.Attach(ctx, e)
//
//	loop.Run(ctx)
//
// Any value implementing registry.Receiver can be registered in place of a
// function; meter.Meter and record.Recorder are two. A Receiver that also
// implements io.Closer is closed when it is replaced or unregistered.
//
// # Executors
//
// The host context is a dispatch.Executor. hostloop.Loop is a ready made
// one; dispatch.Inline runs callbacks on the delivering goroutine for
// engines that already deliver on the host context.
package splitsound
