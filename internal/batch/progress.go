package batch

import (
	"sync"
	"time"
)

// percentMultiplier converts a ratio to a percentage.
const percentMultiplier = 100

// ProgressCallback receives a snapshot after each scenario completes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Progress tracks completed scenarios. It is safe for concurrent use.
type Progress struct {
	mu        sync.Mutex
	total     int
	completed int
	failed    int
	startTime time.Time
}

// NewProgress creates a tracker for total scenarios.
func NewProgress(total int) *Progress {
	return &Progress{total: total, startTime: time.Now()}
}

// record counts one finished scenario and returns the new state.
func (p *Progress) record(failed bool) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
	if failed {
		p.failed++
	}
	return p.snapshotLocked()
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	snap := ProgressSnapshot{
		Total:     p.total,
		Completed: p.completed,
		Failed:    p.failed,
		Elapsed:   time.Since(p.startTime),
	}
	if p.total > 0 {
		snap.PercentComplete = float64(p.completed) / float64(p.total) * percentMultiplier
	}
	return snap
}

// ProgressSnapshot is an immutable view of Progress.
type ProgressSnapshot struct {
	Total           int
	Completed       int
	Failed          int
	PercentComplete float64
	Elapsed         time.Duration
}

// IsComplete reports whether every scenario has finished.
func (s ProgressSnapshot) IsComplete() bool {
	return s.Completed >= s.Total
}
