package rate

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = time.Hour

type Refresher interface {
	Refresh(ctx context.Context, base string) (bool, error)
}

// Scheduler periodically refreshes rates while auto update is enabled.
type Scheduler struct {
	refresher Refresher
	enabled   func() bool
	base      func() string
	interval  time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runOnce),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) runOnce(jobCtx context.Context) {
	if !s.enabled() {
		return
	}
	execID := uuid.NewString()
	base := s.base()
	live, err := s.refresher.Refresh(jobCtx, base)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"exec_id": execID, "base": base}).Error("scheduled rate refresh failed")
		return
	}
	logrus.WithFields(logrus.Fields{"exec_id": execID, "base": base, "live": live}).Debug("scheduled rate refresh done")
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(refresher Refresher, enabled func() bool, base func() string, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if enabled == nil {
		enabled = func() bool { return true }
	}
	if base == nil {
		base = func() string { return DefaultBase }
	}
	return &Scheduler{refresher: refresher, enabled: enabled, base: base, interval: interval}
}
