package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// refreshTimeout bounds one scheduled refresh.
const refreshTimeout = time.Minute

// StartScheduler refreshes the dataset and stores a snapshot every
// interval. The first run happens one interval from now.
func (s *Service) StartScheduler(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("dashboard: refresh interval must be positive, got %s", interval)
	}

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	if s.sched != nil {
		return errors.New("dashboard: scheduler already running")
	}

	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()
	if _, err := sched.Every(interval).WaitForSchedule().Do(s.scheduledRefresh); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	sched.StartAsync()
	s.sched = sched
	s.log.Info("dashboard scheduler started", zap.Duration("interval", interval))
	return nil
}

// StopScheduler stops periodic refreshes. It is a no-op when not running.
func (s *Service) StopScheduler() {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	if s.sched == nil {
		return
	}
	s.sched.Stop()
	s.sched = nil
	s.log.Info("dashboard scheduler stopped")
}

func (s *Service) scheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		return
	}
	if _, err := s.Snapshot(ctx); err != nil {
		s.log.Warn("scheduled snapshot failed", zap.Error(err))
	}
}
