package tui

import (
	"testing"
	"time"
)

func TestScheduler_FireAndCancel(t *testing.T) {
	s := NewScheduler()

	var fired []string
	a, err := s.ScheduleAfter(100*time.Millisecond, func() { fired = append(fired, "a") })
	if err != nil {
		t.Fatalf("ScheduleAfter() error = %v", err)
	}
	b, _ := s.ScheduleAfter(50*time.Millisecond, func() { fired = append(fired, "b") })
	c, _ := s.ScheduleAfter(50*time.Millisecond, func() { fired = append(fired, "c") })

	if s.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", s.Pending())
	}
	if s.Flush() == nil {
		t.Fatal("Flush() should return the queued ticks")
	}
	if s.Flush() != nil {
		t.Fatal("second Flush() should be empty")
	}

	if next, ok := s.Next(); !ok || next != b {
		t.Errorf("Next() = %v, %v; want %v", next, ok, b)
	}

	s.Cancel(b)
	if s.Fire(b) {
		t.Error("cancelled token fired")
	}
	if next, _ := s.Next(); next != c {
		t.Errorf("Next() after cancel = %v, want %v", next, c)
	}

	if !s.Fire(c) || !s.Fire(a) {
		t.Fatal("pending tokens should fire")
	}
	if s.Fire(a) {
		t.Error("token fired twice")
	}
	if len(fired) != 2 || fired[0] != "c" || fired[1] != "a" {
		t.Errorf("fired = %v", fired)
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() should be empty")
	}
}

func TestScheduler_DueTimesAccumulate(t *testing.T) {
	s := NewScheduler()

	var order []int
	first := func() {
		order = append(order, 1)
		// Scheduled after the first fired at 100ms, so due at 130ms.
		_, _ = s.ScheduleAfter(30*time.Millisecond, func() { order = append(order, 3) })
	}
	_, _ = s.ScheduleAfter(100*time.Millisecond, first)
	_, _ = s.ScheduleAfter(120*time.Millisecond, func() { order = append(order, 2) })

	for {
		tok, ok := s.Next()
		if !ok {
			break
		}
		s.Fire(tok)
	}

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}
