package app

import (
	"context"
	"sync"
	"time"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/logger"
)

// DefaultInterval is LB_INTERVAL from spec.md §4.5: the delay between
// successive probe passes in periodic mode.
const DefaultInterval = 30 * time.Second

// Scheduler owns at most one pending timer handle and drives the Status
// Probe either periodically or exactly once (spec.md §4.5).
type Scheduler struct {
	probe    *Probe
	reg      *domain.Registry
	interval time.Duration
	log      logger.LoggerInterface

	mu       sync.Mutex
	timer    *time.Timer
	destroyed bool
}

// NewScheduler builds a Scheduler driving probe against reg every interval.
func NewScheduler(probe *Probe, reg *domain.Registry, interval time.Duration, log logger.LoggerInterface) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{probe: probe, reg: reg, interval: interval, log: log}
}

// RunOnce executes checkStatuses synchronously once and installs no
// periodic timer — the oneTimeLoadBalancing configuration path.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.checkStatuses(ctx)
}

// Start runs checkStatuses once synchronously, then arms the periodic
// timer — the default (non-one-shot) configuration path.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.checkStatuses(ctx); err != nil {
		s.log.Warnc(ctx, 2, "initial probe pass failed", "error", err)
	}
	s.arm(ctx)
	return nil
}

// checkStatuses runs one probe pass.
func (s *Scheduler) checkStatuses(ctx context.Context) error {
	return s.probe.Run(ctx, s.reg)
}

// arm cancels any existing timer and schedules the next checkStatuses pass
// after interval. This enforces "at most one pending probe handle per
// balancer" unconditionally, resolving the open question in spec.md §9.
func (s *Scheduler) arm(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() {
		if err := s.checkStatuses(ctx); err != nil {
			s.log.Warnc(ctx, 2, "probe pass failed", "error", err)
		}
		s.arm(ctx)
	})
}

// Destroy clears the pending timer handle. In-flight HTTP probes are not
// individually cancelled; they complete or time out on their own, and
// because destroyed gates arm, their writes cannot resurrect scheduling.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
