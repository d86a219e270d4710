package app

import (
	"context"
	"time"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/logger"
	"github.com/nodepool/rpc-balancer/internal/network"
)

// Options configures a Balancer at construction time.
type Options struct {
	Network              network.Network
	StaticNodes          []StaticNode
	AllowedBlocksBehind  int64
	Interval             int64 // seconds; 0 selects DefaultInterval
	OneTimeLoadBalancing bool
	Headers              map[string]string
}

// Balancer is the top-level explicit-constructor wiring of the Registry,
// Bootstrap, Status Probe, Scheduler, and Dispatcher for one network. There
// is deliberately no DI container: everything a Balancer depends on is
// passed into New explicitly (spec.md §9).
type Balancer struct {
	reg        *domain.Registry
	bootstrap  *Bootstrap
	scheduler  *Scheduler
	dispatcher *Dispatcher
	log        logger.LoggerInterface
	oneShot    bool
}

// New constructs a Balancer for opts.Network without touching the
// network — call Init to bootstrap and start probing.
func New(client httpPoster, log logger.LoggerInterface, opts Options) (*Balancer, error) {
	codec, err := CodecFor(opts.Network)
	if err != nil {
		return nil, err
	}

	reg := domain.NewRegistry()
	bootstrap := NewBootstrap(reg, client, log, opts.Network, opts.StaticNodes)
	probe := NewProbe(codec, client, log, opts.Headers, opts.AllowedBlocksBehind)

	var interval time.Duration
	if opts.Interval > 0 {
		interval = time.Duration(opts.Interval) * time.Second
	}
	scheduler := NewScheduler(probe, reg, interval, log)
	dispatcher := NewDispatcher(reg, client, log, opts.AllowedBlocksBehind)

	return &Balancer{
		reg:        reg,
		bootstrap:  bootstrap,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		log:        log,
		oneShot:    opts.OneTimeLoadBalancing,
	}, nil
}

// Init bootstraps the registry and starts probing: synchronously once,
// either as a one-shot pass or followed by the periodic Scheduler,
// depending on how the Balancer was configured.
func (b *Balancer) Init(ctx context.Context) error {
	if err := b.bootstrap.Init(ctx); err != nil {
		return err
	}
	if b.oneShot {
		return b.scheduler.RunOnce(ctx)
	}
	return b.scheduler.Start(ctx)
}

// Destroy cancels the Scheduler's pending timer. In-flight probes and
// in-flight dispatcher calls are left to complete on their own.
func (b *Balancer) Destroy() {
	b.scheduler.Destroy()
}

// RawRpcCall implements Caller.
func (b *Balancer) RawRpcCall(ctx context.Context, request []byte, archive bool) ([]byte, error) {
	return b.dispatcher.RawRpcCall(ctx, request, archive)
}

// RawBatchRpcCall implements Caller.
func (b *Balancer) RawBatchRpcCall(ctx context.Context, requests []byte) ([]byte, error) {
	return b.dispatcher.RawBatchRpcCall(ctx, requests)
}

// Post implements Caller.
func (b *Balancer) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return b.dispatcher.Post(ctx, path, body)
}

// EndpointView is a read-only, dashboard-facing copy of one endpoint's
// state, augmented with whether it is the pool's current active selection.
type EndpointView struct {
	domain.Snapshot
	Active bool
}

// Snapshot returns a read-only view of both pools, for the status
// dashboard and for health checks. It never mutates balancer state.
func (b *Balancer) Snapshot() map[domain.NodeKind][]EndpointView {
	out := make(map[domain.NodeKind][]EndpointView, 2)
	for _, kind := range []domain.NodeKind{domain.NodeKindNormal, domain.NodeKindArchive} {
		active := b.reg.Active(kind)
		endpoints := b.reg.Endpoints(kind)
		views := make([]EndpointView, len(endpoints))
		for i, e := range endpoints {
			views[i] = EndpointView{Snapshot: e.Snapshot(), Active: active.Index == i}
		}
		out[kind] = views
	}
	return out
}

// HasActive reports whether kind currently has an active endpoint, for use
// by health checks.
func (b *Balancer) HasActive(kind domain.NodeKind) bool {
	return b.reg.ActiveEndpoint(kind) != nil
}
