package traffic

import (
	"sync"
	"testing"
	"time"
)

// fakeClock returns a Tracker whose clock is advanced by the returned func.
func fakeClock() (*Tracker, func(time.Duration)) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tr := &Tracker{now: func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}}
	return tr, func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}
}

func TestQueryCount_Empty(t *testing.T) {
	Reset()
	if n := QueryCount(1 * time.Minute); n != 0 {
		t.Errorf("QueryCount() = %d, want 0", n)
	}
}

func TestRecordSuccess_AndQueryCount(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordSuccess()
	if n := QueryCount(1 * time.Minute); n != 2 {
		t.Errorf("QueryCount() = %d, want 2", n)
	}
}

func TestErrorRate_SuccessAndError(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordSuccess()
	RecordError()
	errors, total := ErrorRate(1 * time.Minute)
	if errors != 1 || total != 3 {
		t.Errorf("ErrorRate() = (%d, %d), want (1, 3)", errors, total)
	}
}

// TestErrorRate_WindowExcludesOld verifies outcomes older than the window are not counted.
func TestErrorRate_WindowExcludesOld(t *testing.T) {
	tr, advance := fakeClock()
	tr.RecordError()
	tr.RecordError()
	advance(2 * time.Minute)
	tr.RecordSuccess()

	errors, total := tr.ErrorRate(1 * time.Minute)
	if errors != 0 || total != 1 {
		t.Errorf("ErrorRate() = (%d, %d), want (0, 1)", errors, total)
	}
	errors, total = tr.ErrorRate(5 * time.Minute)
	if errors != 2 || total != 3 {
		t.Errorf("ErrorRate(5m) = (%d, %d), want (2, 3)", errors, total)
	}
}

func TestDegraded(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		errors    int
		threshold int
		want      bool
	}{
		{"no traffic", 0, 0, 50, false},
		{"all success", 4, 0, 50, false},
		{"below threshold", 3, 1, 50, false},
		{"at threshold", 2, 2, 50, true},
		{"above threshold", 1, 3, 50, true},
		{"threshold disabled", 0, 5, 0, false},
		{"single error", 0, 1, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := fakeClock()
			for i := 0; i < tt.successes; i++ {
				tr.RecordSuccess()
			}
			for i := 0; i < tt.errors; i++ {
				tr.RecordError()
			}
			if got := tr.Degraded(time.Minute, tt.threshold); got != tt.want {
				t.Errorf("Degraded() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDegraded_Recovers verifies degraded clears once errors age out of the window.
func TestDegraded_Recovers(t *testing.T) {
	tr, advance := fakeClock()
	tr.RecordError()
	if !tr.Degraded(time.Minute, 50) {
		t.Fatal("Degraded() = false right after an error, want true")
	}
	advance(90 * time.Second)
	tr.RecordSuccess()
	if tr.Degraded(time.Minute, 50) {
		t.Error("Degraded() = true after error left the window, want false")
	}
}

func TestPrune_DropsBeyondRetention(t *testing.T) {
	tr, advance := fakeClock()
	tr.RecordError()
	advance(retention + time.Second)
	tr.RecordSuccess()

	tr.mu.Lock()
	n := len(tr.errorTimes)
	tr.mu.Unlock()
	if n != 0 {
		t.Errorf("errorTimes len = %d after retention, want 0", n)
	}
}

func TestReset(t *testing.T) {
	Reset()
	RecordSuccess()
	RecordError()
	Reset()
	errors, total := ErrorRate(1 * time.Minute)
	if errors != 0 || total != 0 {
		t.Errorf("ErrorRate() = (%d, %d), want (0, 0)", errors, total)
	}
	if Degraded(time.Minute, 1) {
		t.Error("Degraded() = true after Reset, want false")
	}
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	var tr Tracker
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				tr.RecordSuccess()
			} else {
				tr.RecordError()
			}
		}(i)
	}
	wg.Wait()
	errors, total := tr.ErrorRate(time.Minute)
	if errors != 25 || total != 50 {
		t.Errorf("ErrorRate() = (%d, %d), want (25, 50)", errors, total)
	}
}
