package state

import (
	"sync"
	"testing"
)

func TestSessionTouch(t *testing.T) {
	s := NewSession()
	if got := s.LastIssue(); got != "" {
		t.Fatalf("expected empty session, got %s", got)
	}

	s.Touch("LPS-1")
	s.Touch("LPS-1")
	s.Touch("")
	s.Touch("LPS-2")

	if got := s.LastIssue(); got != "LPS-2" {
		t.Fatalf("expected LPS-2, got %s", got)
	}

	history := s.History()
	if len(history) != 2 || history[0] != "LPS-1" {
		t.Fatalf("unexpected history %v", history)
	}

	history[0] = "MUTATED"
	if s.History()[0] != "LPS-1" {
		t.Fatalf("history should not reflect external mutation")
	}
}

func TestSessionResolve(t *testing.T) {
	s := NewSession()
	s.Touch("LPS-9")

	if got := s.Resolve(""); got != "LPS-9" {
		t.Fatalf("expected fallback to last issue, got %s", got)
	}
	if got := s.Resolve("OPS-1"); got != "OPS-1" {
		t.Fatalf("explicit key must win, got %s", got)
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Touch("LPS-1")
			_ = s.LastIssue()
		}()
	}
	wg.Wait()

	if s.LastIssue() != "LPS-1" {
		t.Fatalf("unexpected last issue %s", s.LastIssue())
	}
}
