// SPDX-License-Identifier: EPL-2.0

package dispatch

// Executor runs tasks on the host's execution context.
//
// Post must be safe to call from any goroutine, must not block, and must run
// accepted tasks one at a time in the order they were posted. It returns
// false when the executor no longer accepts work.
type Executor interface {
	Post(task func()) bool
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(task func()) bool

// Post implements Executor.
func (f ExecutorFunc) Post(task func()) bool { return f(task) }

// Inline runs every task immediately on the posting goroutine. Use it only
// when the engine already delivers on the host's context. A callback run
// through Inline must not deliver frames to the same dispatcher.
type Inline struct{}

// Post implements Executor.
func (Inline) Post(task func()) bool {
	task()
	return true
}
