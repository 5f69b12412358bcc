package lifecycle

import (
	"sync/atomic"
	"time"
)

// drainStarted is zero while serving and holds the drain start (unix nanos) once shutdown begins.
var drainStarted atomic.Int64

// SetShuttingDown marks the process as draining (true) or serving (false).
// Repeated true calls keep the first start time. /health reports shutting-down while set.
func SetShuttingDown(v bool) {
	if !v {
		drainStarted.Store(0)
		return
	}
	drainStarted.CompareAndSwap(0, time.Now().UnixNano())
}

// IsShuttingDown returns true if the process is draining and should not receive new traffic.
func IsShuttingDown() bool {
	return drainStarted.Load() != 0
}

// DrainingSince returns when shutdown began, or false while serving.
func DrainingSince() (time.Time, bool) {
	ns := drainStarted.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}
