package sync

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/medilink/hms-api/internal/domain/enum"
	"github.com/medilink/hms-api/internal/domain/repository"
	"github.com/medilink/hms-api/pkg/apperror"
)

// Scheduler fires sync runs on the configured frequency. It re-reads the
// config on every tick, so switching between manual, hourly, daily and
// real-time needs no restart.
type Scheduler struct {
	engine     *Engine
	configRepo repository.SyncConfigRepository
	logger     *log.Logger

	tick    time.Duration
	stop    chan struct{}
	done    chan struct{}
	lastRun time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(engine *Engine, configRepo repository.SyncConfigRepository, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		engine:     engine,
		configRepo: configRepo,
		logger:     logger,
		tick:       30 * time.Second,
	}
}

// Start launches the scheduling loop in its own goroutine
func (s *Scheduler) Start() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop()
	s.logger.Println("sync scheduler started")
}

// Stop shuts the scheduling loop down and waits for it to exit
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.logger.Println("sync scheduler stopped")
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.maybeRun()
		}
	}
}

// maybeRun fires a run when the configured interval has elapsed. A run
// already in flight just means this tick is skipped.
func (s *Scheduler) maybeRun() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		s.logger.Printf("sync scheduler: reading config: %v", err)
		return
	}
	if cfg == nil || !cfg.SyncEnabled {
		return
	}

	interval := cfg.SyncFrequency.Interval()
	if interval == 0 {
		return
	}
	if !s.lastRun.IsZero() && time.Since(s.lastRun) < interval {
		return
	}

	s.lastRun = time.Now()
	if _, err := s.engine.PerformSync(ctx, enum.SyncDirectionBidirectional, TriggerScheduled); err != nil {
		if errors.Is(err, apperror.ErrAlreadySyncing) {
			return
		}
		s.logger.Printf("sync scheduler: run failed: %v", err)
	}
}
