package app

import (
	"context"

	"github.com/nodepool/rpc-balancer/internal/httpclient"
)

// Caller is the subset of Balancer that the typed façade adapters (outside
// this module's scope, see facade/) depend on: they hold a reference to a
// Caller and nothing else.
type Caller interface {
	RawRpcCall(ctx context.Context, request []byte, archive bool) ([]byte, error)
	RawBatchRpcCall(ctx context.Context, requests []byte) ([]byte, error)
	Post(ctx context.Context, path string, body []byte) ([]byte, error)
}

// httpPoster is the slice of httpclient.Client the balancer's internals
// need: build a request, POST it, read the body.
type httpPoster interface {
	NewRequest() httpclient.Request
}
