package facade

import (
	"context"
	"encoding/json"

	"github.com/nodepool/rpc-balancer/business/balancer/app"
)

// Generic is the catch-all adapter for networks with no dedicated facade:
// it wraps a method and params in a JSON-RPC 2.0 envelope (or forwards a
// caller-built batch untouched) and returns the raw response, matching
// §4.7's total adapter-selection function.
type Generic struct {
	caller app.Caller
}

// NewGeneric returns an adapter over caller.
func NewGeneric(caller app.Caller) *Generic {
	return &Generic{caller: caller}
}

// Call marshals method and params into a JSON-RPC 2.0 envelope and
// dispatches it via RawRpcCall.
func (g *Generic) Call(ctx context.Context, method string, params []any, archive bool) (json.RawMessage, error) {
	envelope, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}
	return g.caller.RawRpcCall(ctx, envelope, archive)
}

// BatchCall forwards a pre-built JSON-RPC batch envelope via
// RawBatchRpcCall, which always resolves archive-first.
func (g *Generic) BatchCall(ctx context.Context, requests []byte) ([]byte, error) {
	return g.caller.RawBatchRpcCall(ctx, requests)
}

// Post forwards path and body to the active normal endpoint's non-RPC
// HTTP surface (e.g. Tron's HTTP API, Solana's JSON REST).
func (g *Generic) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return g.caller.Post(ctx, path, body)
}
