package facade

import (
	"context"
	"encoding/json"
	"testing"
)

type fakeCaller struct {
	rawRpcCall      func(ctx context.Context, request []byte, archive bool) ([]byte, error)
	rawBatchRpcCall func(ctx context.Context, requests []byte) ([]byte, error)
	post            func(ctx context.Context, path string, body []byte) ([]byte, error)
}

func (f *fakeCaller) RawRpcCall(ctx context.Context, request []byte, archive bool) ([]byte, error) {
	return f.rawRpcCall(ctx, request, archive)
}

func (f *fakeCaller) RawBatchRpcCall(ctx context.Context, requests []byte) ([]byte, error) {
	return f.rawBatchRpcCall(ctx, requests)
}

func (f *fakeCaller) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return f.post(ctx, path, body)
}

func TestEVMBlockNumber(t *testing.T) {
	caller := &fakeCaller{
		rawRpcCall: func(ctx context.Context, request []byte, archive bool) ([]byte, error) {
			var req map[string]any
			if err := json.Unmarshal(request, &req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req["method"] != "eth_blockNumber" {
				t.Fatalf("method = %v, want eth_blockNumber", req["method"])
			}
			if archive {
				t.Fatal("BlockNumber should not request the archive pool")
			}
			return []byte(`{"jsonrpc":"2.0","id":1,"result":"0x10"}`), nil
		},
	}

	evm := NewEVM(caller)
	height, err := evm.BlockNumber(context.Background())
	if err != nil {
		t.Fatalf("BlockNumber: %v", err)
	}
	if height != 16 {
		t.Fatalf("height = %d, want 16", height)
	}
}

func TestEVMBalance(t *testing.T) {
	caller := &fakeCaller{
		rawRpcCall: func(ctx context.Context, request []byte, archive bool) ([]byte, error) {
			var req map[string]any
			if err := json.Unmarshal(request, &req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			params, ok := req["params"].([]any)
			if !ok || len(params) != 2 {
				t.Fatalf("params = %v, want [address, blockTag]", req["params"])
			}
			return []byte(`{"jsonrpc":"2.0","id":1,"result":"0x2386f26fc10000"}`), nil
		},
	}

	evm := NewEVM(caller)
	balance, err := evm.Balance(context.Background(), "0xabc", "latest")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != "0x2386f26fc10000" {
		t.Fatalf("balance = %q, want 0x2386f26fc10000", balance)
	}
}

func TestEVMBlockNumberPropagatesRpcError(t *testing.T) {
	caller := &fakeCaller{
		rawRpcCall: func(ctx context.Context, request []byte, archive bool) ([]byte, error) {
			return []byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"boom"}}`), nil
		},
	}

	evm := NewEVM(caller)
	if _, err := evm.BlockNumber(context.Background()); err == nil {
		t.Fatal("expected an error from the rpc error envelope")
	}
}
