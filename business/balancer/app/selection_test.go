package app

import (
	"testing"
	"time"

	"github.com/nodepool/rpc-balancer/business/balancer/domain"
)

func snap(block int64, rtt time.Duration, failed bool) domain.Snapshot {
	return domain.Snapshot{LastBlock: block, LastResponseTime: rtt, Failed: failed}
}

func TestSelectEndpointStaleButFastLoses(t *testing.T) {
	// Endpoints A(block=100, rt=20), B(block=110, rt=200), allowed=5.
	// B wins because 110-5 > 100.
	servers := []domain.Snapshot{
		snap(100, 20*time.Millisecond, false),
		snap(110, 200*time.Millisecond, false),
	}
	if got := SelectEndpoint(servers, 5); got != 1 {
		t.Fatalf("SelectEndpoint = %d, want 1 (B)", got)
	}
}

func TestSelectEndpointStaleWithinToleranceKeepsIncumbent(t *testing.T) {
	// A(block=108, rt=20), B(block=110, rt=200), allowed=5.
	// A becomes winner first; B: 110-5=105 not > 108, blocks differ so
	// same-block rule doesn't apply either. Winner stays A.
	servers := []domain.Snapshot{
		snap(108, 20*time.Millisecond, false),
		snap(110, 200*time.Millisecond, false),
	}
	if got := SelectEndpoint(servers, 5); got != 0 {
		t.Fatalf("SelectEndpoint = %d, want 0 (A)", got)
	}
}

func TestSelectEndpointIdenticalBlockPicksLowerLatency(t *testing.T) {
	servers := []domain.Snapshot{
		snap(100, 200*time.Millisecond, false),
		snap(100, 50*time.Millisecond, false),
	}
	if got := SelectEndpoint(servers, 5); got != 1 {
		t.Fatalf("SelectEndpoint = %d, want 1 (lower latency)", got)
	}
}

func TestSelectEndpointNeverReturnsFailed(t *testing.T) {
	servers := []domain.Snapshot{
		snap(1000, time.Millisecond, true),
		snap(1, time.Hour, false),
	}
	if got := SelectEndpoint(servers, 5); got != 1 {
		t.Fatalf("SelectEndpoint = %d, want 1 (only non-failed)", got)
	}
}

func TestSelectEndpointAllFailedReturnsNone(t *testing.T) {
	servers := []domain.Snapshot{
		snap(100, time.Millisecond, true),
		snap(200, time.Millisecond, true),
	}
	if got := SelectEndpoint(servers, 5); got != -1 {
		t.Fatalf("SelectEndpoint = %d, want -1", got)
	}
}

func TestSelectEndpointEmptyListReturnsNone(t *testing.T) {
	if got := SelectEndpoint(nil, 5); got != -1 {
		t.Fatalf("SelectEndpoint = %d, want -1", got)
	}
}

func TestSelectEndpointZeroToleranceRequiresStrictAhead(t *testing.T) {
	// allowedBlocksBehind == 0 -> strict ahead-by->=1 rule.
	servers := []domain.Snapshot{
		snap(100, 20*time.Millisecond, false),
		snap(100, 5*time.Millisecond, false),
	}
	// Equal blocks: same-block rule applies, lower latency wins.
	if got := SelectEndpoint(servers, 0); got != 1 {
		t.Fatalf("SelectEndpoint = %d, want 1", got)
	}

	// One block ahead is strictly ahead: it beats a faster incumbent.
	ahead := []domain.Snapshot{
		snap(100, 5*time.Millisecond, false),
		snap(101, 200*time.Millisecond, false),
	}
	if got := SelectEndpoint(ahead, 0); got != 1 {
		t.Fatalf("SelectEndpoint = %d, want 1 (one block ahead)", got)
	}
}

func TestSelectEndpointIsIdempotentOverSnapshot(t *testing.T) {
	servers := []domain.Snapshot{
		snap(100, 20*time.Millisecond, false),
		snap(110, 200*time.Millisecond, false),
		snap(110, 5*time.Millisecond, true),
	}
	first := SelectEndpoint(servers, 5)
	second := SelectEndpoint(servers, 5)
	if first != second {
		t.Fatalf("SelectEndpoint not idempotent: %d != %d", first, second)
	}
}

func TestSelectEndpointEarlierPositionTieBreaks(t *testing.T) {
	// Two identical candidates (same block, same latency): the earlier one
	// in list order remains the incumbent because the replace rule is a
	// strict less-than on latency.
	servers := []domain.Snapshot{
		snap(100, 50*time.Millisecond, false),
		snap(100, 50*time.Millisecond, false),
	}
	if got := SelectEndpoint(servers, 5); got != 0 {
		t.Fatalf("SelectEndpoint = %d, want 0 (incumbent wins tie)", got)
	}
}
