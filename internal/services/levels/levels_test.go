package levels

import (
	"math"
	"testing"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		xp   uint64
		want uint64
	}{
		{"zero", 0, 0},
		{"just below level 1", 9, 0},
		{"level 1 exactly", 10, 1},
		{"between 1 and 2", 39, 1},
		{"level 2 exactly", 40, 2},
		{"level 3 exactly", 90, 3},
		{"just below level 10", 999, 9},
		{"level 10 exactly", 1000, 10},
		{"max counter", math.MaxInt64, 960383883},
		{"max uint64", math.MaxUint64, 1358187913},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Level(tt.xp); got != tt.want {
				t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
			}
		})
	}
}

func TestLevelMonotonic(t *testing.T) {
	prev := uint64(0)
	for xp := uint64(0); xp < 50000; xp++ {
		l := Level(xp)
		if l < prev {
			t.Fatalf("Level(%d) = %d dropped below %d", xp, l, prev)
		}
		if xp >= XPForLevel(l+1) || xp < XPForLevel(l) {
			t.Fatalf("xp %d outside level %d bounds", xp, l)
		}
		prev = l
	}
}

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level uint64
		want  uint64
	}{
		{0, 0},
		{1, 10},
		{2, 40},
		{3, 90},
		{10, 1000},
		{math.MaxUint32 * 2, math.MaxUint64},
	}

	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestProgressFor(t *testing.T) {
	got := ProgressFor(55)
	want := Progress{Level: 2, Current: 15, NextLevel: 50}
	if got != want {
		t.Errorf("ProgressFor(55) = %+v, want %+v", got, want)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		level uint64
		want  string
	}{
		{0, "Lurker 👀"},
		{1, "Newcomer 🌱"},
		{4, "Newcomer 🌱"},
		{5, "Familiar Face 🙂"},
		{10, "Chatter 💬"},
		{20, "Regular 🌟"},
		{30, "Veteran ⚔️"},
		{50, "Legend 🏆"},
		{500, "Legend 🏆"},
	}

	for _, tt := range tests {
		if got := Title(tt.level); got != tt.want {
			t.Errorf("Title(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
