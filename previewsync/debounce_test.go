package previewsync

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 10; i++ {
		d.Trigger()
	}
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestDebouncer_SpacedTriggersFireEach(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	d.Trigger()
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	if !d.Pending() {
		t.Error("expected pending after trigger")
	}
	d.Cancel()
	if d.Pending() {
		t.Error("expected not pending after cancel")
	}

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 after cancel", got)
	}
}

func TestDebouncer_RetriggersAfterFire(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	d.Trigger()
	d.Trigger() // reschedule, still one fire
	time.Sleep(60 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}
