package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/business/balancer/infra/manifest"
	"github.com/nodepool/rpc-balancer/internal/apperror"
	"github.com/nodepool/rpc-balancer/internal/logger"
	"github.com/nodepool/rpc-balancer/internal/network"
)

// StaticNode is one caller-supplied node for static bootstrap mode. The
// SSRF allow-list does not apply to these (spec.md §4.1: "caller is
// trusted").
type StaticNode struct {
	URL  string
	Kind domain.NodeKind
}

// Bootstrap populates a Registry exactly once, either from caller-supplied
// static nodes or by fetching the network's two remote manifests.
type Bootstrap struct {
	reg         *domain.Registry
	client      httpPoster
	log         logger.LoggerInterface
	network     network.Network
	staticNodes []StaticNode

	tracer trace.Tracer
}

// NewBootstrap builds a Bootstrap over reg for n. When staticNodes is
// non-empty, Init runs in static mode; otherwise it fetches n's remote
// manifests.
func NewBootstrap(reg *domain.Registry, client httpPoster, log logger.LoggerInterface, n network.Network, staticNodes []StaticNode) *Bootstrap {
	return &Bootstrap{
		reg:         reg,
		client:      client,
		log:         log,
		network:     n,
		staticNodes: staticNodes,
		tracer:      otel.GetTracerProvider().Tracer("rpc_balancer"),
	}
}

// Init populates reg exactly once and picks each kind's initial active
// endpoint uniformly at random. It returns NoActiveNode if both kinds end
// empty.
func (b *Bootstrap) Init(ctx context.Context) error {
	ctx, span := b.tracer.Start(ctx, "balancer.bootstrap",
		trace.WithAttributes(attribute.String("network", string(b.network))))
	defer span.End()

	if len(b.staticNodes) > 0 {
		b.initStatic()
	} else {
		b.initRemote(ctx)
	}

	for _, kind := range []domain.NodeKind{domain.NodeKindNormal, domain.NodeKindArchive} {
		b.pickInitialActive(kind)
	}

	if !b.reg.HasAnyActive() {
		err := apperror.New(apperror.CodeNoActiveNode)
		span.RecordError(err)
		return err
	}
	return nil
}

// initStatic appends every supplied node whose Kind matches to the
// matching kind's list. The SSRF check is bypassed entirely.
func (b *Bootstrap) initStatic() {
	for _, kind := range []domain.NodeKind{domain.NodeKindNormal, domain.NodeKindArchive} {
		for _, n := range b.staticNodes {
			if n.Kind == kind {
				b.reg.Seed(kind, domain.NewEndpoint(n.URL, kind))
			}
		}
	}
}

// initRemote fetches the two manifests concurrently and admits only nodes
// that pass the SSRF allow-list.
func (b *Bootstrap) initRemote(ctx context.Context) {
	slug := network.ManifestName(b.network)
	urls := [2]string{
		fmt.Sprintf("https://%s/%s/list.json", manifest.TrustedHostSuffix, slug),
		fmt.Sprintf("https://%s/%s-archive/list.json", manifest.TrustedHostSuffix, slug),
	}

	nodeLists := make([][]manifest.Node, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			nodes, err := b.fetchManifest(gctx, u)
			if err != nil {
				b.log.Warnc(ctx, 2, "manifest fetch failed", "url", u, "error", err)
				return nil
			}
			nodeLists[i] = nodes
			return nil
		})
	}
	_ = g.Wait() // the g.Go closures never return a non-nil error; fetch failures are logged, not propagated.

	for _, nodes := range nodeLists {
		for _, n := range nodes {
			if !manifest.IsTrusted(n.URL) {
				b.log.Warnc(ctx, 2, "dropping untrusted manifest node", "url", n.URL)
				continue
			}
			kind, ok := kindFromType(n.Type)
			if !ok {
				continue
			}
			b.reg.Seed(kind, domain.NewEndpoint(n.URL, kind))
		}
	}
}

func (b *Bootstrap) fetchManifest(ctx context.Context, url string) ([]manifest.Node, error) {
	resp, err := b.client.NewRequest().Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeExternalServiceError, apperror.WithStatusCode(resp.StatusCode))
	}
	return manifest.Decode(resp.Body())
}

func kindFromType(t string) (domain.NodeKind, bool) {
	switch t {
	case "normal", "NORMAL":
		return domain.NodeKindNormal, true
	case "archive", "ARCHIVE":
		return domain.NodeKindArchive, true
	default:
		return 0, false
	}
}

// pickInitialActive chooses a uniformly random index as kind's initial
// active selection, if kind has at least one endpoint, spreading initial
// load across clients (spec.md §4.1).
func (b *Bootstrap) pickInitialActive(kind domain.NodeKind) {
	endpoints := b.reg.Endpoints(kind)
	if len(endpoints) == 0 {
		return
	}
	index := rand.IntN(len(endpoints))
	b.reg.SetActive(kind, endpoints[index].URL(), index)
}
