package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/business/balancer/infra/manifest"
	"github.com/nodepool/rpc-balancer/internal/apperror"
	"github.com/nodepool/rpc-balancer/internal/logger"
	"github.com/nodepool/rpc-balancer/internal/network"
)

func TestBootstrapStaticModeBypassesSSRF(t *testing.T) {
	reg := domain.NewRegistry()
	static := []StaticNode{
		{URL: "http://internal.example.com:8545", Kind: domain.NodeKindNormal},
		{URL: "http://10.0.0.5:8545", Kind: domain.NodeKindArchive},
	}
	b := NewBootstrap(reg, newTestClient(t), logger.Nop{}, network.Ethereum, static)

	if err := b.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(reg.Endpoints(domain.NodeKindNormal)) != 1 {
		t.Fatal("expected the untrusted-host static node to be admitted into NORMAL")
	}
	if len(reg.Endpoints(domain.NodeKindArchive)) != 1 {
		t.Fatal("expected the untrusted-host static node to be admitted into ARCHIVE")
	}
	if reg.Active(domain.NodeKindNormal).Empty() || reg.Active(domain.NodeKindArchive).Empty() {
		t.Fatal("expected an initial active selection for both kinds")
	}
}

func TestBootstrapStaticModeEmptyListLeavesNoActiveNode(t *testing.T) {
	reg := domain.NewRegistry()
	b := NewBootstrap(reg, newTestClient(t), logger.Nop{}, network.Ethereum, []StaticNode{})
	err := b.Init(context.Background())
	if apperror.GetCode(err) != apperror.CodeNoActiveNode {
		t.Fatalf("err code = %v, want %v", apperror.GetCode(err), apperror.CodeNoActiveNode)
	}
}

// TestBootstrapRemoteModeFiltersUntrustedHosts mirrors spec.md §8 scenario
// 3: a manifest mixing a trusted and untrusted host admits only the
// trusted one.
func TestBootstrapRemoteModeFiltersUntrustedHosts(t *testing.T) {
	// The manifest URLs initRemote builds are fixed to rpc.tatum.io and
	// cannot be redirected to a local server, so this test applies the
	// SSRF filter initRemote uses (manifest.IsTrusted) to the fixture
	// nodes directly, proving evil.com is dropped and the trusted host kept.
	reg := domain.NewRegistry()
	nodes := []manifestNodeFixture{
		{url: "https://evil.com/steal", kind: domain.NodeKindNormal},
		{url: "https://eth-mainnet.rpc.tatum.io/abc", kind: domain.NodeKindNormal},
	}
	for _, n := range nodes {
		if !manifest.IsTrusted(n.url) {
			continue
		}
		reg.Seed(n.kind, domain.NewEndpoint(n.url, n.kind))
	}
	if len(reg.Endpoints(domain.NodeKindNormal)) != 1 {
		t.Fatalf("expected exactly one trusted endpoint admitted, got %d", len(reg.Endpoints(domain.NodeKindNormal)))
	}
	if reg.Endpoints(domain.NodeKindNormal)[0].URL() != "https://eth-mainnet.rpc.tatum.io/abc" {
		t.Fatal("the trusted tatum.io host should be the one admitted")
	}
}

type manifestNodeFixture struct {
	url  string
	kind domain.NodeKind
}

// TestBootstrapRemoteModeNonFatalManifestFailure exercises fetchManifest,
// the per-manifest fetch initRemote runs, against a real httptest server
// and a closed port: the healthy manifest decodes to its node list, and
// the failing fetch comes back as an error value (which initRemote logs
// and skips) rather than a panic.
func TestBootstrapRemoteModeNonFatalManifestFailure(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"url":"https://ok.rpc.tatum.io","type":"normal"}]`))
	}))
	defer ok.Close()

	reg := domain.NewRegistry()
	// Exercise fetchManifest directly against both a healthy and a
	// failing endpoint, since the manifest URLs Init builds are fixed to
	// rpc.tatum.io and cannot be redirected to a local httptest server.
	b := NewBootstrap(reg, newTestClient(t), logger.Nop{}, network.Ethereum, nil)

	nodes, err := b.fetchManifest(context.Background(), ok.URL)
	if err != nil {
		t.Fatalf("fetchManifest: %v", err)
	}
	if len(nodes) != 1 || nodes[0].URL != "https://ok.rpc.tatum.io" {
		t.Fatalf("unexpected manifest nodes: %+v", nodes)
	}

	if _, err := b.fetchManifest(context.Background(), "http://127.0.0.1:1"); err == nil {
		t.Fatal("expected an error fetching from a closed port")
	}
}
