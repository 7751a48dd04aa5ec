// Package cooldown is the per-user admission gate in front of XP counting.
package cooldown

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

const DefaultWindow = 3 * time.Second

// Gate admits at most one event per user per window. The grants map is
// injected so its lifetime is the gate's, and every check-and-set runs inside
// a single MapOf.Compute call.
type Gate struct {
	window time.Duration
	grants *xsync.MapOf[string, time.Time]
}

func NewGate(window time.Duration, grants *xsync.MapOf[string, time.Time]) *Gate {
	if window <= 0 {
		window = DefaultWindow
	}
	if grants == nil {
		grants = xsync.NewMapOf[string, time.Time]()
	}
	return &Gate{window: window, grants: grants}
}

func (g *Gate) Window() time.Duration {
	return g.window
}

// Admit reports whether userID may count an event at now, recording now as
// the new grant when it may.
func (g *Gate) Admit(userID string, now time.Time) bool {
	admitted := false
	g.grants.Compute(userID, func(last time.Time, loaded bool) (time.Time, bool) {
		if loaded && remaining(g.window, now, last) > 0 {
			return last, false
		}
		admitted = true
		return now, false
	})
	return admitted
}

// Remaining is how long userID must wait at now.
func (g *Gate) Remaining(userID string, now time.Time) time.Duration {
	last, ok := g.grants.Load(userID)
	if !ok {
		return 0
	}
	return remaining(g.window, now, last)
}

// Prune drops grants whose window has passed and returns how many it removed.
func (g *Gate) Prune(now time.Time) int {
	removed := 0
	g.grants.Range(func(userID string, _ time.Time) bool {
		g.grants.Compute(userID, func(last time.Time, loaded bool) (time.Time, bool) {
			if !loaded {
				return last, true
			}
			if remaining(g.window, now, last) > 0 {
				return last, false
			}
			removed++
			return last, true
		})
		return true
	})
	return removed
}

func (g *Gate) Size() int {
	return g.grants.Size()
}

func remaining(window time.Duration, now, last time.Time) time.Duration {
	if last.IsZero() {
		return 0
	}
	next := last.Add(window)
	if now.Before(next) {
		return next.Sub(now)
	}
	return 0
}
