package timer

import (
	"context"
	"sync"
	"time"
)

// RepeatedTimer runs a function, then sleeps until the next wall-clock
// boundary of interval (never less than minDelay), until its context ends.
type RepeatedTimer struct {
	interval time.Duration
	minDelay time.Duration
	function func(ctx context.Context)

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

func NewRepeatedTimer(interval, minDelay time.Duration, function func(ctx context.Context)) *RepeatedTimer {
	return &RepeatedTimer{
		interval: interval,
		minDelay: minDelay,
		function: function,
		now:      time.Now,
		after:    time.After,
	}
}

// NextAligned is the delay from now until the next multiple of interval,
// floored at minDelay.
func NextAligned(now time.Time, interval, minDelay time.Duration) time.Duration {
	if interval <= 0 {
		return minDelay
	}
	next := now.Truncate(interval).Add(interval)
	delay := next.Sub(now)
	if delay < minDelay {
		delay = minDelay
	}
	return delay
}

// Run blocks until ctx is cancelled. Cancellation while sleeping is a normal
// stop and returns nil.
func (rt *RepeatedTimer) Run(ctx context.Context) error {
	for {
		rt.function(ctx)
		if ctx.Err() != nil {
			return nil
		}

		delay := NextAligned(rt.now().UTC(), rt.interval, rt.minDelay)
		select {
		case <-ctx.Done():
			return nil
		case <-rt.after(delay):
		}
	}
}

func (rt *RepeatedTimer) Start(ctx context.Context) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	rt.cancel = cancel
	rt.stopped = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		_ = rt.Run(ctx)
	}(rt.stopped)
}

// Stop cancels a started timer and waits for the current run to return.
func (rt *RepeatedTimer) Stop() {
	rt.mu.Lock()
	cancel, stopped := rt.cancel, rt.stopped
	rt.cancel, rt.stopped = nil, nil
	rt.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}
