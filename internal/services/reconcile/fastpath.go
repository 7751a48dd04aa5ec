package reconcile

//go:generate mockgen -source=fastpath.go -destination=mocks/mock_fastpath.go -package=mocks

import (
	"context"
	"errors"

	"github.com/MyelinBots/statbot-go/internal/db"
)

// ErrFastPathUnavailable is returned when the store has no server-side sync
// routine at all.
var ErrFastPathUnavailable = errors.New("reconcile: fast path unavailable on this store")

type Outcome int

const (
	Success Outcome = iota
	// Unsupported means the routine is missing; the fallback runs.
	Unsupported
	// Transient means the store was unreachable or busy; the fallback runs.
	Transient
	// Failed aborts the run.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Unsupported:
		return "unsupported"
	case Transient:
		return "transient"
	default:
		return "failed"
	}
}

// Recoverable reports whether the fallback should be attempted.
func (o Outcome) Recoverable() bool {
	return o == Unsupported || o == Transient
}

type FastPathResult struct {
	Outcome Outcome
	Rows    int64
	Err     error
}

// FastPath recomputes every user's global cache in one server-side call.
type FastPath interface {
	Sync(ctx context.Context) FastPathResult
}

// PostgresFastPath calls the sync_global_xp_cache() function installed by
// the migrations.
type PostgresFastPath struct {
	db *db.DB
}

func NewPostgresFastPath(database *db.DB) *PostgresFastPath {
	return &PostgresFastPath{db: database}
}

func (p *PostgresFastPath) Sync(ctx context.Context) FastPathResult {
	if p.db.Dialect() != "postgres" {
		return FastPathResult{Outcome: Unsupported, Err: ErrFastPathUnavailable}
	}

	var changed int64
	err := p.db.DB.WithContext(ctx).Raw("SELECT sync_global_xp_cache()").Scan(&changed).Error
	if err != nil {
		return FastPathResult{Outcome: Classify(err), Err: err}
	}
	return FastPathResult{Outcome: Success, Rows: changed}
}
