// Package domain holds the data model of the RPC load balancer: the
// endpoint record, node kind, and the endpoint registry.
package domain

import (
	"sync"
	"time"
)

// NodeKind is the pool an Endpoint belongs to. An endpoint belongs to
// exactly one kind; the same URL may be registered under both kinds as two
// independent records.
type NodeKind int

const (
	NodeKindNormal NodeKind = iota
	NodeKindArchive
)

func (k NodeKind) String() string {
	if k == NodeKindArchive {
		return "archive"
	}
	return "normal"
}

// Endpoint is one JSON-RPC URL belonging to one NodeKind. URL and Kind are
// immutable after construction; LastBlock, LastResponseTime, and Failed are
// mutated by the Status Probe and the Dispatcher and must only be read or
// written through the accessor methods, which serialize access behind mu.
type Endpoint struct {
	url  string
	kind NodeKind

	mu               sync.RWMutex
	lastBlock        int64
	lastResponseTime time.Duration
	failed           bool
}

// NewEndpoint constructs an Endpoint for url in kind. LastBlock and
// LastResponseTime start at zero; Failed starts false until the first probe
// says otherwise.
func NewEndpoint(url string, kind NodeKind) *Endpoint {
	return &Endpoint{url: url, kind: kind}
}

// URL returns the endpoint's absolute HTTP(S) URL.
func (e *Endpoint) URL() string { return e.url }

// Kind returns the node kind the endpoint belongs to.
func (e *Endpoint) Kind() NodeKind { return e.kind }

// Snapshot is a point-in-time, lock-free copy of an endpoint's mutable
// state, safe to read and pass around after it's taken.
type Snapshot struct {
	URL              string
	Kind             NodeKind
	LastBlock        int64
	LastResponseTime time.Duration
	Failed           bool
}

// Snapshot takes a consistent copy of the endpoint's current state.
func (e *Endpoint) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		URL:              e.url,
		Kind:             e.kind,
		LastBlock:        e.lastBlock,
		LastResponseTime: e.lastResponseTime,
		Failed:           e.failed,
	}
}

// RecordSuccess records a successful probe: clears Failed and stores the
// observed height and round-trip time.
func (e *Endpoint) RecordSuccess(block int64, rtt time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = false
	e.lastBlock = block
	e.lastResponseTime = rtt
}

// RecordFailure marks the endpoint failed. If a response did arrive (e.g.
// malformed JSON) rtt should be the observed round-trip time; pass 0 when
// no response arrived at all (timeout, transport error).
func (e *Endpoint) RecordFailure(rtt time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = true
	if rtt > 0 {
		e.lastResponseTime = rtt
	}
}

// MarkFailed flags the endpoint failed without touching LastResponseTime.
// Used by the Dispatcher on a call error, where no probe timing applies.
func (e *Endpoint) MarkFailed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failed = true
}
