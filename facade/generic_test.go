package facade

import (
	"context"
	"encoding/json"
	"testing"
)

func TestGenericCallBuildsEnvelope(t *testing.T) {
	caller := &fakeCaller{
		rawRpcCall: func(ctx context.Context, request []byte, archive bool) ([]byte, error) {
			var req map[string]any
			if err := json.Unmarshal(request, &req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req["method"] != "getHealth" {
				t.Fatalf("method = %v, want getHealth", req["method"])
			}
			if !archive {
				t.Fatal("expected archive=true to be forwarded")
			}
			return []byte(`{"jsonrpc":"2.0","id":1,"result":"ok"}`), nil
		},
	}

	generic := NewGeneric(caller)
	raw, err := generic.Call(context.Background(), "getHealth", []any{}, true)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected a non-empty response")
	}
}

func TestGenericBatchCallForwardsVerbatim(t *testing.T) {
	want := []byte(`[{"jsonrpc":"2.0","id":1,"method":"a"},{"jsonrpc":"2.0","id":2,"method":"b"}]`)
	caller := &fakeCaller{
		rawBatchRpcCall: func(ctx context.Context, requests []byte) ([]byte, error) {
			if string(requests) != string(want) {
				t.Fatalf("requests = %s, want %s", requests, want)
			}
			return []byte(`[]`), nil
		},
	}

	generic := NewGeneric(caller)
	if _, err := generic.BatchCall(context.Background(), want); err != nil {
		t.Fatalf("BatchCall: %v", err)
	}
}

func TestGenericPostForwardsPathAndBody(t *testing.T) {
	caller := &fakeCaller{
		post: func(ctx context.Context, path string, body []byte) ([]byte, error) {
			if path != "/wallet/broadcasttransaction" {
				t.Fatalf("path = %q, want /wallet/broadcasttransaction", path)
			}
			return []byte(`{"result":"ok"}`), nil
		},
	}

	generic := NewGeneric(caller)
	if _, err := generic.Post(context.Background(), "/wallet/broadcasttransaction", []byte(`{}`)); err != nil {
		t.Fatalf("Post: %v", err)
	}
}
