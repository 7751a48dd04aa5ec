package cooldown

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

func TestRemaining(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		last time.Time
		want time.Duration
	}{
		{name: "never granted", now: base, last: time.Time{}, want: 0},
		{name: "granted 1s ago", now: base.Add(time.Second), last: base, want: 2 * time.Second},
		{name: "granted exactly 3s ago", now: base.Add(3 * time.Second), last: base, want: 0},
		{name: "granted long ago", now: base.Add(time.Hour), last: base, want: 0},
		{name: "clock behind last grant", now: base.Add(-time.Second), last: base, want: 4 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remaining(DefaultWindow, tt.now, tt.last)
			if got != tt.want {
				t.Errorf("remaining() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateAdmit(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	gate := NewGate(DefaultWindow, xsync.NewMapOf[string, time.Time]())

	steps := []struct {
		name   string
		user   string
		offset time.Duration
		want   bool
	}{
		{"first event admitted", "alice", 0, true},
		{"inside window denied", "alice", 2 * time.Second, false},
		{"other user unaffected", "bob", 2 * time.Second, true},
		{"window elapsed admitted", "alice", 3 * time.Second, true},
		{"denied again after new grant", "alice", 4 * time.Second, false},
	}

	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			if got := gate.Admit(st.user, base.Add(st.offset)); got != st.want {
				t.Errorf("Admit(%q, +%v) = %v, want %v", st.user, st.offset, got, st.want)
			}
		})
	}
}

func TestGateDeniedEventDoesNotExtendWindow(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	gate := NewGate(DefaultWindow, nil)

	gate.Admit("alice", base)
	gate.Admit("alice", base.Add(2*time.Second))

	if got := gate.Remaining("alice", base.Add(2*time.Second)); got != time.Second {
		t.Errorf("Remaining = %v, want 1s", got)
	}
	if !gate.Admit("alice", base.Add(3*time.Second)) {
		t.Error("expected admission once the first window passed")
	}
}

func TestGateConcurrentAdmitsOnce(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	gate := NewGate(DefaultWindow, nil)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if gate.Admit("racer", now) {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := admitted.Load(); got != 1 {
		t.Errorf("admitted %d events, want exactly 1", got)
	}
}

func TestGatePrune(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	gate := NewGate(DefaultWindow, nil)

	gate.Admit("old", base)
	gate.Admit("fresh", base.Add(5*time.Second))

	removed := gate.Prune(base.Add(6 * time.Second))
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if gate.Size() != 1 {
		t.Errorf("Size = %d, want 1", gate.Size())
	}
	if gate.Remaining("fresh", base.Add(6*time.Second)) != 2*time.Second {
		t.Error("fresh grant should survive pruning")
	}
}

func TestNewGateDefaults(t *testing.T) {
	gate := NewGate(0, nil)
	if gate.Window() != DefaultWindow {
		t.Errorf("Window = %v, want %v", gate.Window(), DefaultWindow)
	}
}
