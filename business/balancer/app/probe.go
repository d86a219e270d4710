package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/apperror"
	"github.com/nodepool/rpc-balancer/internal/logger"
)

// DefaultProbeTimeout is the per-request abort deadline for a single probe
// (spec.md §4.3, §5).
const DefaultProbeTimeout = 5 * time.Second

// Probe is the Status Probe: one pass issues one health RPC per endpoint,
// per tick, recording latency, last-known block height, and failure flag.
type Probe struct {
	codec               StatusCodec
	client              httpPoster
	log                 logger.LoggerInterface
	headers             map[string]string
	timeout             time.Duration
	allowedBlocksBehind int64

	tracer         trace.Tracer
	latencyHist    metric.Float64Histogram
	failureCounter metric.Int64Counter
}

// NewProbe builds a Probe for codec, issuing requests through client with
// the given extra headers (SDK identification headers, spec.md §6) and the
// Selection Policy's allowedBlocksBehind tolerance.
func NewProbe(codec StatusCodec, client httpPoster, log logger.LoggerInterface, headers map[string]string, allowedBlocksBehind int64) *Probe {
	meter := otel.GetMeterProvider().Meter("rpc_balancer")
	latencyHist, _ := meter.Float64Histogram(
		"balancer_probe_latency_seconds",
		metric.WithDescription("Status probe round-trip latency"),
	)
	failureCounter, _ := meter.Int64Counter(
		"balancer_probe_failures_total",
		metric.WithDescription("Status probe failures by kind"),
	)
	return &Probe{
		codec:               codec,
		client:              client,
		log:                 log,
		headers:             headers,
		timeout:             DefaultProbeTimeout,
		allowedBlocksBehind: allowedBlocksBehind,
		tracer:              otel.GetTracerProvider().Tracer("rpc_balancer"),
		latencyHist:         latencyHist,
		failureCounter:      failureCounter,
	}
}

// Run executes one complete pass: NORMAL then ARCHIVE, sequential by kind,
// concurrent within a kind. It returns once every endpoint of both kinds
// has settled (success or failure) — a "wait for all, never reject"
// composition, so a single slow or failing endpoint never aborts the pass.
//
// After each kind's sub-pass, Selection Policy re-selects that kind's
// active endpoint. If neither kind ends the pass with an active selection,
// Run returns a NoActiveNode error.
func (p *Probe) Run(ctx context.Context, reg *domain.Registry) error {
	for _, kind := range []domain.NodeKind{domain.NodeKindNormal, domain.NodeKindArchive} {
		p.runKind(ctx, reg, kind)
		p.reselect(reg, kind)
	}
	if !reg.HasAnyActive() {
		return apperror.New(apperror.CodeNoActiveNode)
	}
	return nil
}

// runKind probes every endpoint of kind concurrently, waiting for all of
// them to settle. errgroup.Go never returns a non-nil error here, so
// g.Wait() never short-circuits on the first failure.
func (p *Probe) runKind(ctx context.Context, reg *domain.Registry, kind domain.NodeKind) {
	endpoints := reg.Endpoints(kind)
	if len(endpoints) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range endpoints {
		e := e
		g.Go(func() error {
			p.probeOne(gctx, e)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Probe) probeOne(ctx context.Context, e *domain.Endpoint) {
	ctx, span := p.tracer.Start(ctx, "balancer.probe",
		trace.WithAttributes(
			attribute.String("endpoint.url", e.URL()),
			attribute.String("endpoint.kind", e.Kind().String()),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	req := p.client.NewRequest().
		SetHeaders(p.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(p.codec.ProbeRequest())

	resp, err := req.Post(ctx, e.URL())
	elapsed := time.Since(start)
	attrs := metric.WithAttributes(attribute.String("kind", e.Kind().String()))

	if err != nil {
		// Transport error or timeout: no response arrived.
		e.RecordFailure(0)
		p.failureCounter.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return
	}

	if resp.IsError() {
		e.RecordFailure(elapsed)
		p.failureCounter.Add(ctx, 1, attrs)
		span.SetStatus(codes.Error, "non-2xx probe response")
		return
	}

	height, decodeErr := p.codec.DecodeHeight(resp.Body())
	if decodeErr != nil || height < 0 {
		e.RecordFailure(elapsed)
		p.failureCounter.Add(ctx, 1, attrs)
		if decodeErr != nil {
			span.RecordError(decodeErr)
		}
		span.SetStatus(codes.Error, "malformed probe response")
		return
	}

	e.RecordSuccess(height, elapsed)
	p.latencyHist.Record(ctx, elapsed.Seconds(), attrs)
}

// reselect runs the Selection Policy over kind's current snapshot and
// publishes the result as the new active endpoint.
func (p *Probe) reselect(reg *domain.Registry, kind domain.NodeKind) {
	endpoints := reg.Endpoints(kind)
	snapshots := make([]domain.Snapshot, len(endpoints))
	for i, e := range endpoints {
		snapshots[i] = e.Snapshot()
	}
	winner := SelectEndpoint(snapshots, p.allowedBlocksBehind)
	if winner < 0 {
		reg.ClearActive(kind)
		return
	}
	reg.SetActive(kind, endpoints[winner].URL(), winner)
}
