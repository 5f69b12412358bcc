package traffic

import (
	"sync"
	"time"
)

// retention bounds how long outcomes are kept; windows longer than this see a truncated history.
const retention = 10 * time.Minute

var defaultTracker Tracker

// RecordSuccess records a weather query that produced a report.
func RecordSuccess() {
	defaultTracker.RecordSuccess()
}

// RecordError records a weather query that failed for any reason other than input validation.
func RecordError() {
	defaultTracker.RecordError()
}

// QueryCount returns the number of recorded outcomes within the window.
func QueryCount(window time.Duration) int {
	return defaultTracker.QueryCount(window)
}

// ErrorRate returns (errorCount, totalCount) within the window.
func ErrorRate(window time.Duration) (errors, total int) {
	return defaultTracker.ErrorRate(window)
}

// Degraded reports whether the error percentage within the window is at or above thresholdPct.
func Degraded(window time.Duration, thresholdPct int) bool {
	return defaultTracker.Degraded(window, thresholdPct)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Tracker maintains sliding windows of query outcome timestamps.
// The zero value is ready to use.
type Tracker struct {
	mu           sync.Mutex
	successTimes []time.Time
	errorTimes   []time.Time

	// now is swapped in tests; nil means time.Now.
	now func() time.Time
}

func (t *Tracker) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// RecordSuccess records a successful outcome.
func (t *Tracker) RecordSuccess() {
	t.record(&t.successTimes)
}

// RecordError records a failed outcome.
func (t *Tracker) RecordError() {
	t.record(&t.errorTimes)
}

func (t *Tracker) record(slice *[]time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	*slice = append(*slice, now)
	t.pruneLocked(now)
}

// QueryCount returns successes plus errors within the window.
func (t *Tracker) QueryCount(window time.Duration) int {
	_, total := t.ErrorRate(window)
	return total
}

// ErrorRate returns (errorCount, totalCount) within the window.
func (t *Tracker) ErrorRate(window time.Duration) (errors, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.clock().Add(-window)
	errCount := countSince(t.errorTimes, cutoff)
	successCount := countSince(t.successTimes, cutoff)
	return errCount, errCount + successCount
}

// Degraded is true when at least one query fell inside the window and
// errors make up thresholdPct percent or more of them.
func (t *Tracker) Degraded(window time.Duration, thresholdPct int) bool {
	errs, total := t.ErrorRate(window)
	if total == 0 || thresholdPct <= 0 {
		return false
	}
	return errs*100 >= thresholdPct*total
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successTimes = nil
	t.errorTimes = nil
}

func countSince(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than retention. Must be called with mu held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-retention)
	prune := func(slice *[]time.Time) {
		times := *slice
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i > 0 {
			*slice = append(times[:0], times[i:]...)
		}
	}
	prune(&t.successTimes)
	prune(&t.errorTimes)
}
