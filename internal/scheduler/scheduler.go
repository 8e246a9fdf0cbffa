package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"

	"newsbrief/config"
	"newsbrief/internal/brief"
)

// CycleRunner captures the app methods the scheduler drives.
type CycleRunner interface {
	RunCycle(ctx context.Context) (brief.Brief, error)
	Deliver(b brief.Brief, save bool)
}

// Scheduler fires brief cycles every N days at a fixed time of day, or
// on a cron expression when one is configured. It polls instead of
// sleeping until the fire time, so trigger latency is bounded by one
// poll interval. A cycle failure is logged and never stops the loop.
type Scheduler struct {
	runner   CycleRunner
	cfg      config.ScheduleConfig
	autoSave bool
	logger   *log.Logger
	cron     *cronexpr.Expression
	atHour   int
	atMinute int

	// now and tick are swapped out by tests to drive the loop without
	// wall-clock waits.
	now  func() time.Time
	tick <-chan time.Time

	mu        sync.Mutex
	next      time.Time
	latest    brief.Brief
	hasLatest bool
	runASAP   bool
}

// New builds a Scheduler around runner. autoSave controls whether
// scheduled cycles write the brief to disk; cfg is normalized before
// use. Invalid cron expressions are reported and ignored.
func New(runner CycleRunner, cfg config.ScheduleConfig, autoSave bool, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(log.Writer(), "[SCHED] ", log.LstdFlags)
	}
	cfg = cfg.Normalize()

	s := &Scheduler{
		runner:   runner,
		cfg:      cfg,
		autoSave: autoSave,
		logger:   logger,
		now:      time.Now,
	}
	at, _ := time.Parse("15:04", cfg.At)
	s.atHour, s.atMinute = at.Hour(), at.Minute()

	if cfg.Cron != "" {
		expr, err := cronexpr.Parse(cfg.Cron)
		if err != nil {
			logger.Printf("warn: invalid cron %q, using every %d day(s) at %s: %v", cfg.Cron, cfg.EveryDays, cfg.At, err)
		} else {
			s.cron = expr
		}
	}
	return s
}

// Run drives the loop until ctx is cancelled. When runNow is true one
// cycle executes before the first poll; manual cycles do not shift the
// schedule. Returns nil on a clean stop.
func (s *Scheduler) Run(ctx context.Context, runNow bool) error {
	start := s.now()
	s.mu.Lock()
	s.next = s.firstFire(start)
	next := s.next
	s.mu.Unlock()

	if s.cron != nil {
		s.logger.Printf("scheduler started; cron %q", s.cfg.Cron)
	} else {
		s.logger.Printf("scheduler started; running every %d day(s) at %s", s.cfg.EveryDays, s.cfg.At)
	}
	s.logger.Printf("current time %s, next run %s, polling every %s",
		start.Format("2006-01-02 15:04:05"), next.Format("2006-01-02 15:04:05"), s.cfg.PollInterval)

	if runNow {
		s.logger.Printf("running immediately")
		s.cycle(ctx)
	}

	ticks := s.tick
	if ticks == nil {
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("scheduler stopped: %v", ctx.Err())
			return nil
		case <-ticks:
			s.pollOnce(ctx)
		}
	}
}

// pollOnce is one tick: run a cycle if a manual run was requested or
// the fire time has arrived. A scheduled fire advances the next fire
// time whether or not the cycle succeeds; failed cycles are not
// retried before the next scheduled fire.
func (s *Scheduler) pollOnce(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	manual := s.runASAP
	s.runASAP = false
	due := !s.next.After(now)
	if due {
		s.next = s.nextFire(now)
	}
	next := s.next
	s.mu.Unlock()

	if !manual && !due {
		return
	}
	if manual && !due {
		s.logger.Printf("manual run at %s", now.Format("2006-01-02 15:04:05"))
	} else {
		s.logger.Printf("scheduled run at %s", now.Format("2006-01-02 15:04:05"))
	}
	s.cycle(ctx)
	if due {
		s.logger.Printf("next run %s", next.Format("2006-01-02 15:04:05"))
	}
}

// cycle executes one build-and-deliver pass. Errors are contained here
// so the loop transitions back to idle no matter what.
func (s *Scheduler) cycle(ctx context.Context) {
	b, err := s.runner.RunCycle(ctx)
	if err != nil {
		s.logger.Printf("error in scheduled run: %v", err)
		return
	}
	s.runner.Deliver(b, s.autoSave)

	s.mu.Lock()
	s.latest = b
	s.hasLatest = true
	s.mu.Unlock()
}

// RequestRun asks the loop to execute one cycle at its next tick. Safe
// to call from other goroutines.
func (s *Scheduler) RequestRun() {
	s.mu.Lock()
	s.runASAP = true
	s.mu.Unlock()
	s.logger.Printf("manual run requested")
}

// Latest returns the most recent successfully built brief, if any.
func (s *Scheduler) Latest() (brief.Brief, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasLatest
}

// firstFire is the first matching time of day at or after start, or the
// next cron hit when a cron expression is set.
func (s *Scheduler) firstFire(start time.Time) time.Time {
	if s.cron != nil {
		return s.cron.Next(start)
	}
	at := time.Date(start.Year(), start.Month(), start.Day(), s.atHour, s.atMinute, 0, 0, start.Location())
	if at.Before(start) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// nextFire advances the schedule from the moment a fire was observed:
// EveryDays later at the configured time of day.
func (s *Scheduler) nextFire(fired time.Time) time.Time {
	if s.cron != nil {
		return s.cron.Next(fired)
	}
	at := time.Date(fired.Year(), fired.Month(), fired.Day(), s.atHour, s.atMinute, 0, 0, fired.Location())
	return at.AddDate(0, 0, s.cfg.EveryDays)
}
