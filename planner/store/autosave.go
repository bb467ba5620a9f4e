package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/planner/model"
)

// SnapshotSaver is the write side the autosaver drives; *Store implements it.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap *model.Snapshot) error
}

// Autosaver debounces snapshot writes: a burst of Save calls produces one write of the
// latest snapshot once the burst has been quiet for the delay.
type Autosaver struct {
	dst     SnapshotSaver
	delay   time.Duration
	logger  *log.Logger
	onSaved func()

	mu      sync.Mutex
	pending *model.Snapshot
	kick    chan struct{}
}

// NewAutosaver returns an idle autosaver. onSaved, if set, runs on the saver goroutine
// after each successful write.
func NewAutosaver(dst SnapshotSaver, delay time.Duration, logger *log.Logger, onSaved func()) *Autosaver {
	return &Autosaver{
		dst: dst, delay: delay, logger: logger, onSaved: onSaved,
		kick: make(chan struct{}, 1),
	}
}

// Save queues snap, replacing any snapshot not yet written. It never blocks. The caller
// hands over ownership of snap.
func (a *Autosaver) Save(snap *model.Snapshot) {
	a.mu.Lock()
	a.pending = snap
	a.mu.Unlock()
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx is done, then flushes what is still pending.
func (a *Autosaver) Run(ctx context.Context) error {
	timer := time.NewTimer(a.delay)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			return a.Flush(flushCtx)
		case <-a.kick:
			timer.Reset(a.delay)
		case <-timer.C:
			if err := a.Flush(ctx); err != nil {
				a.logger.Error("autosave failed", "err", err)
			}
		}
	}
}

// Flush writes the pending snapshot now, if there is one.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	snap := a.pending
	a.pending = nil
	a.mu.Unlock()
	if snap == nil {
		return nil
	}
	if err := a.dst.SaveSnapshot(ctx, snap); err != nil {
		// retry with the next kick unless something newer arrived meanwhile
		a.mu.Lock()
		if a.pending == nil {
			a.pending = snap
		}
		a.mu.Unlock()
		return err
	}
	a.logger.Debug("snapshot saved", "week", snap.WeekIndex)
	if a.onSaved != nil {
		a.onSaved()
	}
	return nil
}
