package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/httpclient"
	"github.com/nodepool/rpc-balancer/internal/logger"
	"github.com/nodepool/rpc-balancer/internal/network"
)

func newTestClient(t *testing.T) httpclient.Client {
	t.Helper()
	c, err := httpclient.NewInstrumentedClient()
	if err != nil {
		t.Fatalf("NewInstrumentedClient: %v", err)
	}
	return c
}

func TestProbeRunRecordsSuccessAndSelectsActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":820123}`))
	}))
	defer srv.Close()

	codec, err := CodecFor(network.Bitcoin)
	if err != nil {
		t.Fatalf("CodecFor: %v", err)
	}

	reg := domain.NewRegistry()
	reg.Seed(domain.NodeKindNormal, domain.NewEndpoint(srv.URL, domain.NodeKindNormal))

	p := NewProbe(codec, newTestClient(t), logger.Nop{}, nil, 5)
	if err := p.Run(context.Background(), reg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	active := reg.ActiveEndpoint(domain.NodeKindNormal)
	if active == nil {
		t.Fatal("expected an active normal endpoint after a successful probe")
	}
	snap := active.Snapshot()
	if snap.Failed {
		t.Fatal("endpoint should not be failed")
	}
	if snap.LastBlock != 820123 {
		t.Fatalf("LastBlock = %d, want 820123", snap.LastBlock)
	}
}

func TestProbeRunNoActiveNodeWhenAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	codec, _ := CodecFor(network.Ethereum)
	reg := domain.NewRegistry()
	reg.Seed(domain.NodeKindNormal, domain.NewEndpoint(srv.URL, domain.NodeKindNormal))

	p := NewProbe(codec, newTestClient(t), logger.Nop{}, nil, 5)
	err := p.Run(context.Background(), reg)
	if err == nil {
		t.Fatal("expected NoActiveNode error")
	}
	if reg.ActiveEndpoint(domain.NodeKindNormal) != nil {
		t.Fatal("no endpoint should be active when all probes fail")
	}
}
