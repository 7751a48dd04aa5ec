// Package reconcile keeps users.global_xp_cache equal to the sum of the
// user's community_stats.xp.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db"
	"github.com/MyelinBots/statbot-go/internal/services/timer"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	PathFast     = "fast"
	PathFallback = "fallback"
)

// Status describes the most recent finished run.
type Status struct {
	RunID      string    `json:"run_id"`
	Path       string    `json:"path"`
	Corrected  int64     `json:"corrected"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type Service struct {
	db   *db.DB
	fast FastPath
	log  *zap.Logger
	now  func() time.Time

	// runMu serializes scheduled and on-demand runs.
	runMu sync.Mutex

	statusMu sync.RWMutex
	last     *Status
}

func NewService(database *db.DB, fast FastPath, log *zap.Logger) *Service {
	if fast == nil {
		fast = NewPostgresFastPath(database)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: database, fast: fast, log: log, now: time.Now}
}

// Run performs one reconciliation and returns the number of corrected users.
// The scheduled loop and the admin trigger both call it.
func (s *Service) Run(ctx context.Context) (int64, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	st := Status{RunID: uuid.NewString(), StartedAt: s.now().UTC()}
	log := s.log.With(zap.String("run_id", st.RunID))

	corrected, path, err := s.run(ctx, log)
	st.Path = path
	st.Corrected = corrected
	st.FinishedAt = s.now().UTC()
	if err != nil {
		st.Error = err.Error()
	}
	s.setStatus(st)

	if err != nil {
		log.Error("global xp sync failed", zap.String("path", path), zap.Error(err))
		return 0, err
	}
	log.Info("global xp sync finished",
		zap.String("path", path),
		zap.Int64("corrected", corrected),
		zap.Duration("took", st.FinishedAt.Sub(st.StartedAt)))
	return corrected, nil
}

func (s *Service) run(ctx context.Context, log *zap.Logger) (int64, string, error) {
	res := s.fast.Sync(ctx)
	switch {
	case res.Outcome == Success:
		return res.Rows, PathFast, nil
	case res.Outcome.Recoverable():
		log.Warn("fast path unavailable, using fallback",
			zap.Stringer("outcome", res.Outcome),
			zap.Error(res.Err))
	case res.Err == nil:
		return 0, PathFast, pkgerrors.Errorf("fast path: %s", res.Outcome)
	default:
		return 0, PathFast, pkgerrors.Wrap(res.Err, "fast path")
	}

	if err := ctx.Err(); err != nil {
		return 0, PathFallback, err
	}
	corrected, err := Fallback(ctx, s.db)
	if err != nil {
		return 0, PathFallback, pkgerrors.Wrap(err, "fallback")
	}
	return corrected, PathFallback, nil
}

// Status returns the last finished run, or nil before the first one.
func (s *Service) Status() *Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	if s.last == nil {
		return nil
	}
	st := *s.last
	return &st
}

func (s *Service) setStatus(st Status) {
	s.statusMu.Lock()
	s.last = &st
	s.statusMu.Unlock()
}

// Schedule returns a timer that runs the service on wall-clock aligned
// boundaries. Failed runs are logged and retried at the next boundary.
func (s *Service) Schedule(interval, minDelay time.Duration) *timer.RepeatedTimer {
	return timer.NewRepeatedTimer(interval, minDelay, func(ctx context.Context) {
		_, _ = s.Run(ctx)
	})
}
