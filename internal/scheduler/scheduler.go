// Package scheduler triggers sync runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

const (
	// DefaultSchedule runs a full sync every six hours.
	DefaultSchedule = "0 */6 * * *"
	defaultTimeout  = 30 * time.Minute
)

// Config controls scheduled syncing.
type Config struct {
	Enabled  bool          `env:"SYNC_SCHEDULE_ENABLED" yaml:"enabled"`
	Schedule string        `env:"SYNC_SCHEDULE"         yaml:"schedule"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Schedule == "" {
		c.Schedule = DefaultSchedule
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Job is the sync entry point the scheduler fires.
type Job func(ctx context.Context) domain.SyncResult

// Scheduler fires Job on a cron schedule. A tick that arrives while the previous run is
// still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	job     Job
	timeout time.Duration
	log     logger.Logger
	running atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates the schedule and builds a stopped Scheduler.
func New(cfg Config, job Job, log logger.Logger) (*Scheduler, error) {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	// Standard 5-field spec plus descriptors such as @hourly and @every.
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    c,
		job:     job,
		timeout: cfg.Timeout,
		log:     log.With(logger.String("schedule", cfg.Schedule)),
		ctx:     ctx,
		cancel:  cancel,
	}

	if _, err := c.AddFunc(cfg.Schedule, func() { s.RunOnce(s.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid sync schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Sync scheduler started")
}

// Stop halts the schedule, cancels an in-flight run and waits for it or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronCtx := s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		<-cronCtx.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

// RunOnce runs the job now unless a run is already in progress. It reports whether it ran.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("Skipping scheduled sync, previous run still in progress")
		return false
	}
	defer s.running.Store(false)

	s.wg.Add(1)
	defer s.wg.Done()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result := s.job(runCtx)
	s.log.Info("Scheduled sync finished",
		logger.Int("synced", result.Synced),
		logger.Int("total_found", result.TotalFound),
		logger.Duration("duration", time.Since(start)),
	)
	return true
}

// Next is the time of the next scheduled run, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
