package facade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nodepool/rpc-balancer/business/balancer/app"
)

// UTXO adapts a Caller for Bitcoin-family JSON-RPC methods.
type UTXO struct {
	caller app.Caller
}

// NewUTXO returns an adapter over caller.
func NewUTXO(caller app.Caller) *UTXO {
	return &UTXO{caller: caller}
}

// BlockCount calls getblockcount and returns the chain height.
func (u *UTXO) BlockCount(ctx context.Context) (int64, error) {
	envelope, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getblockcount",
		"params":  []any{},
	})
	if err != nil {
		return 0, fmt.Errorf("getblockcount: encode request: %w", err)
	}
	resp, err := u.caller.RawRpcCall(ctx, envelope, false)
	if err != nil {
		return 0, err
	}
	var out struct {
		Result int64 `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return 0, fmt.Errorf("getblockcount: decode envelope: %w", err)
	}
	if out.Error != nil {
		return 0, fmt.Errorf("getblockcount: rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	return out.Result, nil
}
