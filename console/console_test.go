package console

import (
	"testing"
	"time"
)

type recordingConsole struct {
	calls []string
}

func (r *recordingConsole) Errorf(format string, args ...any) {
	r.calls = append(r.calls, format)
}

func TestRateLimitedSuppressesRepeatsWithinWindow(t *testing.T) {
	rec := &recordingConsole{}
	c := NewRateLimited(rec, time.Minute, 2)

	c.Errorf("load failed: %s", "task 1")
	c.Errorf("load failed: %s", "task 1")
	c.Errorf("load failed: %s", "task 1")

	if len(rec.calls) != 2 {
		t.Fatalf("expected exactly 2 allowed calls within the window, got %d", len(rec.calls))
	}
}

func TestRateLimitedTracksDistinctMessagesIndependently(t *testing.T) {
	rec := &recordingConsole{}
	c := NewRateLimited(rec, time.Minute, 1)

	c.Errorf("load failed: %s", "task 1")
	c.Errorf("load failed: %s", "task 2")

	if len(rec.calls) != 2 {
		t.Fatalf("expected both distinct messages through, got %d", len(rec.calls))
	}
}

func TestRateLimitedDefaultsToStderrWhenNextIsNil(t *testing.T) {
	c := NewRateLimited(nil, time.Minute, 1)
	c.Errorf("hello") // must not panic
}
