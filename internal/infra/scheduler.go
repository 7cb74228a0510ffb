package infra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/robfig/cron/v3"
)

// Refresher is anything that can refresh the dashboard lists
type Refresher interface {
	RefreshLists(ctx context.Context) error
}

// Scheduler refreshes the dashboard lists on a cron schedule
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	timeout   time.Duration

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new scheduler.
// spec uses the six-field cron format with seconds, e.g. "*/30 * * * * *".
func NewScheduler(refresher Refresher, spec string, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		refresher: refresher,
		spec:      spec,
		timeout:   timeout,
	}
}

// Start registers the refresh job and starts the cron loop
func (s *Scheduler) Start() error {
	glog.Infof("[CRON] Starting auto-refresh [%s]", s.spec)

	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.RunNow(); err != nil {
			glog.Warningf("[CRON] Scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	glog.Info("[OK] Auto-refresh started")
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	glog.Info("[CRON] Stopping auto-refresh...")
	<-s.cron.Stop().Done()
	glog.Info("[OK] Auto-refresh stopped")
}

// RunNow refreshes immediately. A tick that lands while a refresh is
// still in flight is skipped.
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		glog.V(1).Info("[CRON] Refresh already running, skipping")
		return nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.refresher.RefreshLists(ctx)
}
