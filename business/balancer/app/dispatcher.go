package app

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/apperror"
	"github.com/nodepool/rpc-balancer/internal/logger"
)

// Dispatcher resolves the active URL for a call (with cross-kind
// fallback), forwards it to the HTTP transport, and on failure marks the
// endpoint failed, re-selects, and retries — iteratively, not recursively
// (spec.md §5, §9), bounded by the total endpoint count across both kinds.
type Dispatcher struct {
	reg                 *domain.Registry
	client              httpPoster
	log                 logger.LoggerInterface
	allowedBlocksBehind int64

	tracer          trace.Tracer
	failoverCounter metric.Int64Counter
}

// NewDispatcher builds a Dispatcher over reg, issuing calls through client.
func NewDispatcher(reg *domain.Registry, client httpPoster, log logger.LoggerInterface, allowedBlocksBehind int64) *Dispatcher {
	meter := otel.GetMeterProvider().Meter("rpc_balancer")
	failoverCounter, _ := meter.Int64Counter(
		"balancer_dispatcher_failovers_total",
		metric.WithDescription("Dispatcher failovers by kind"),
	)
	return &Dispatcher{
		reg:                 reg,
		client:              client,
		log:                 log,
		allowedBlocksBehind: allowedBlocksBehind,
		tracer:              otel.GetTracerProvider().Tracer("rpc_balancer"),
		failoverCounter:     failoverCounter,
	}
}

// resolve returns the active endpoint to use for a call requesting
// primaryKind, falling back to the other kind if primaryKind has none.
func (d *Dispatcher) resolve(primaryKind domain.NodeKind) (*domain.Endpoint, error) {
	if e := d.reg.ActiveEndpoint(primaryKind); e != nil {
		return e, nil
	}
	fallbackKind := domain.NodeKindArchive
	if primaryKind == domain.NodeKindArchive {
		fallbackKind = domain.NodeKindNormal
	}
	if e := d.reg.ActiveEndpoint(fallbackKind); e != nil {
		return e, nil
	}
	return nil, apperror.New(apperror.CodeNoActiveNode)
}

// totalEndpoints bounds the Dispatcher's retry loop: there is no retry cap
// other than "all endpoints of both kinds failed" (spec.md §4.6), and that
// can take at most this many attempts.
func (d *Dispatcher) totalEndpoints() int {
	return len(d.reg.Endpoints(domain.NodeKindNormal)) + len(d.reg.Endpoints(domain.NodeKindArchive))
}

// RawRpcCall resolves the active URL (with cross-kind fallback per
// archive), POSTs request to it, and on transport-level error or non-2xx
// failover: marks that endpoint failed, re-runs Selection Policy on its
// kind, and retries against the new active endpoint. It returns the raw
// JSON-RPC response body without interpretation.
func (d *Dispatcher) RawRpcCall(ctx context.Context, request []byte, archive bool) ([]byte, error) {
	primaryKind := domain.NodeKindNormal
	if archive {
		primaryKind = domain.NodeKindArchive
	}
	return d.dispatch(ctx, request, primaryKind)
}

// RawBatchRpcCall has identical semantics to RawRpcCall but always resolves
// through the archive-first fallback path, because batch calls may
// reference historical state (spec.md §4.6, §9 — preserved deliberately).
func (d *Dispatcher) RawBatchRpcCall(ctx context.Context, requests []byte) ([]byte, error) {
	return d.dispatch(ctx, requests, domain.NodeKindArchive)
}

func (d *Dispatcher) dispatch(ctx context.Context, body []byte, primaryKind domain.NodeKind) ([]byte, error) {
	ctx, span := d.tracer.Start(ctx, "balancer.dispatch",
		trace.WithAttributes(attribute.String("kind", primaryKind.String())))
	defer span.End()

	endpoint, err := d.resolve(primaryKind)
	if err != nil {
		return nil, err
	}

	// Bounded retry loop, replacing the source's recursive retry
	// (spec.md §5, §9). Bound = total endpoints across both kinds: that
	// is the most attempts a genuine "exhaust everything" run can take.
	bound := d.totalEndpoints()
	for attempt := 0; attempt <= bound; attempt++ {
		resp, postErr := d.post(ctx, endpoint.URL(), body)
		if postErr == nil && !resp.isHTTPError {
			return resp.body, nil
		}

		lastErr := firstNonNil(postErr, resp.errFromStatus())
		span.RecordError(lastErr)
		endpoint.MarkFailed()
		currentKind := endpoint.Kind()
		d.failoverCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", currentKind.String())))

		next, ok := d.reselectAfterFailure(currentKind)
		if !ok {
			// currentKind is exhausted. Fall back to the other kind's
			// active endpoint, if it still has one, before giving up —
			// retry only stops once both pools are exhausted (spec.md §9).
			otherKind := domain.NodeKindArchive
			if currentKind == domain.NodeKindArchive {
				otherKind = domain.NodeKindNormal
			}
			next = d.reg.ActiveEndpoint(otherKind)
			if next == nil {
				return nil, apperror.New(apperror.CodeAllNodesUnavailable, apperror.WithCause(lastErr))
			}
		}
		endpoint = next
	}

	return nil, apperror.New(apperror.CodeAllNodesUnavailable)
}

// reselectAfterFailure runs the Selection Policy over kind's current
// snapshot. If a winner exists, it publishes and returns it with ok=true;
// otherwise it clears kind's active selection and returns ok=false,
// signaling total exhaustion of that kind (spec.md §4.6).
func (d *Dispatcher) reselectAfterFailure(kind domain.NodeKind) (*domain.Endpoint, bool) {
	endpoints := d.reg.Endpoints(kind)
	snapshots := make([]domain.Snapshot, len(endpoints))
	for i, e := range endpoints {
		snapshots[i] = e.Snapshot()
	}
	winner := SelectEndpoint(snapshots, d.allowedBlocksBehind)
	if winner < 0 {
		d.reg.ClearActive(kind)
		return nil, false
	}
	d.reg.SetActive(kind, endpoints[winner].URL(), winner)
	return endpoints[winner], true
}

// Post sends body to activeNormalUrl + path. On error it logs and
// propagates — no retry, no failover (spec.md §4.6), used by non-RPC chain
// endpoints such as Tron's HTTP API or Solana's JSON REST surface.
func (d *Dispatcher) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	endpoint := d.reg.ActiveEndpoint(domain.NodeKindNormal)
	if endpoint == nil {
		return nil, apperror.New(apperror.CodeNoActiveNode)
	}
	resp, err := d.post(ctx, endpoint.URL()+path, body)
	if err != nil {
		d.log.Errorc(ctx, 2, "post failed", "url", endpoint.URL()+path, "error", err)
		return nil, err
	}
	if resp.isHTTPError {
		err := resp.errFromStatus()
		d.log.Errorc(ctx, 2, "post returned error status", "url", endpoint.URL()+path, "error", err)
		return resp.body, err
	}
	return resp.body, nil
}

type dispatchResponse struct {
	body        []byte
	isHTTPError bool
	statusCode  int
}

func (r dispatchResponse) errFromStatus() error {
	if !r.isHTTPError {
		return nil
	}
	return apperror.New(apperror.CodeExternalServiceError, apperror.WithStatusCode(r.statusCode))
}

func (d *Dispatcher) post(ctx context.Context, url string, body []byte) (dispatchResponse, error) {
	resp, err := d.client.NewRequest().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(ctx, url)
	if err != nil {
		return dispatchResponse{}, err
	}
	return dispatchResponse{body: resp.Body(), isHTTPError: resp.IsError(), statusCode: resp.StatusCode}, nil
}

func firstNonNil(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
