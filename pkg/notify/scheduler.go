package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/toria/internal/logging"
	cronv3 "github.com/robfig/cron/v3"
)

// DefaultSchedule runs the trip scan every half hour.
const DefaultSchedule = "@every 30m"

// Scheduler runs ScheduleTripNotifications on a cron schedule.
type Scheduler struct {
	service *Service
	cron    *cronv3.Cron
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler validates spec and prepares a stopped scheduler.
// spec accepts five or six fields and descriptors such as "@hourly".
func NewScheduler(service *Service, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	raw := strings.TrimSpace(spec)
	if raw == "" {
		raw = DefaultSchedule
	}

	parser := cronv3.NewParser(cronv3.SecondOptional | cronv3.Minute | cronv3.Hour | cronv3.Dom | cronv3.Month | cronv3.Dow | cronv3.Descriptor)
	s := &Scheduler{
		service: service,
		cron:    cronv3.New(cronv3.WithParser(parser)),
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(raw, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return s, nil
}

// RunOnce performs a single scan.
func (s *Scheduler) RunOnce() {
	sent, err := s.service.ScheduleTripNotifications(context.Background())
	if err != nil {
		s.logger.Error("Trip notification scan failed", "err", err)
		return
	}
	s.logger.Debug("Trip notification scan finished", "sent", sent)
}

// Start runs the scheduler in the background. It is a no-op when already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("Notification scheduler started")
}

// Stop halts the scheduler and waits for a running scan to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Notification scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
