package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/logger"
	"github.com/nodepool/rpc-balancer/internal/network"
)

func TestSchedulerRunOnceInstallsNoTimer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":1}`))
	}))
	defer srv.Close()

	codec, _ := CodecFor(network.Bitcoin)
	reg := domain.NewRegistry()
	reg.Seed(domain.NodeKindNormal, domain.NewEndpoint(srv.URL, domain.NodeKindNormal))

	p := NewProbe(codec, newTestClient(t), logger.Nop{}, nil, 5)
	s := NewScheduler(p, reg, time.Millisecond, logger.Nop{})

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	s.mu.Lock()
	hasTimer := s.timer != nil
	s.mu.Unlock()
	if hasTimer {
		t.Fatal("RunOnce must not arm a periodic timer")
	}
}

func TestSchedulerDestroyClearsTimer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":1}`))
	}))
	defer srv.Close()

	codec, _ := CodecFor(network.Bitcoin)
	reg := domain.NewRegistry()
	reg.Seed(domain.NodeKindNormal, domain.NewEndpoint(srv.URL, domain.NodeKindNormal))

	p := NewProbe(codec, newTestClient(t), logger.Nop{}, nil, 5)
	s := NewScheduler(p, reg, time.Hour, logger.Nop{})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.mu.Lock()
	if s.timer == nil {
		s.mu.Unlock()
		t.Fatal("Start should arm a timer")
	}
	s.mu.Unlock()

	s.Destroy()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		t.Fatal("Destroy should clear the timer handle")
	}
	if !s.destroyed {
		t.Fatal("Destroy should set destroyed")
	}
}

func TestSchedulerArmIsNoopAfterDestroy(t *testing.T) {
	reg := domain.NewRegistry()
	codec, _ := CodecFor(network.Bitcoin)
	p := NewProbe(codec, newTestClient(t), logger.Nop{}, nil, 5)
	s := NewScheduler(p, reg, time.Millisecond, logger.Nop{})

	s.Destroy()
	s.arm(context.Background())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		t.Fatal("arm after Destroy must leave no pending timer")
	}
}
