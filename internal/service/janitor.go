package service

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor sweeps expired invite codes on a cron schedule.
type Janitor struct {
	storage JanitorStorage
	cron    *cron.Cron
	spec    string

	mu    sync.Mutex
	stats JanitorStats
}

// JanitorStats tracks metrics from the sweeps, for monitoring.
type JanitorStats struct {
	Runs        int
	LastRunAt   time.Time
	LastPurged  int64
	TotalPurged int64
	LastError   string
}

type JanitorStorage interface {
	PurgeExpiredInvites(now time.Time) (int64, error)
}

// NewJanitor builds the sweeper; spec is a standard 5-field cron
// expression, e.g. "30 3 * * *" for a daily run.
func NewJanitor(storage JanitorStorage, spec string) *Janitor {
	return &Janitor{
		storage: storage,
		cron:    cron.New(),
		spec:    spec,
	}
}

func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.RunOnce); err != nil {
		return err
	}
	j.cron.Start()
	zap.S().Infow("invite janitor started", "spec", j.spec)
	return nil
}

// Stop halts the schedule; a sweep already running finishes.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

// RunOnce executes a single sweep. Exported so operators and tests can
// trigger it outside the schedule.
func (j *Janitor) RunOnce() {
	now := time.Now().UTC()
	purged, err := j.storage.PurgeExpiredInvites(now)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.stats.Runs++
	j.stats.LastRunAt = now
	if err != nil {
		j.stats.LastError = err.Error()
		zap.S().Errorw("invite sweep failed", "error", err)
		return
	}
	j.stats.LastError = ""
	j.stats.LastPurged = purged
	j.stats.TotalPurged += purged
	zap.S().Infow("invite sweep completed", "purged", purged)
}

func (j *Janitor) Stats() JanitorStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}
