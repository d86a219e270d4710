// Package facade supplies typed adapters over app.Caller, one per chain
// family, illustrating the external-collaborator contract: an adapter holds
// nothing but a Caller and turns method/params into rawRpcCall envelopes.
package facade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/nodepool/rpc-balancer/business/balancer/app"
)

// EVM adapts a Caller for Ethereum-family JSON-RPC methods.
type EVM struct {
	caller app.Caller
}

// NewEVM returns an adapter over caller. It holds no state of its own.
func NewEVM(caller app.Caller) *EVM {
	return &EVM{caller: caller}
}

// BlockNumber calls eth_blockNumber and returns the decoded height.
func (e *EVM) BlockNumber(ctx context.Context) (uint64, error) {
	raw, err := e.rpcCall(ctx, "eth_blockNumber", []any{}, false)
	if err != nil {
		return 0, err
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return 0, fmt.Errorf("eth_blockNumber: decode result: %w", err)
	}
	return hexutil.DecodeUint64(hex)
}

// Balance calls eth_getBalance for address at the given block tag
// ("latest", "earliest", or a hex block number) and returns the decoded
// wei amount as a hex string, matching JSON-RPC's native representation.
func (e *EVM) Balance(ctx context.Context, address, blockTag string) (string, error) {
	raw, err := e.rpcCall(ctx, "eth_getBalance", []any{address, blockTag}, false)
	if err != nil {
		return "", err
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return "", fmt.Errorf("eth_getBalance: decode result: %w", err)
	}
	return hex, nil
}

func (e *EVM) rpcCall(ctx context.Context, method string, params []any, archive bool) (json.RawMessage, error) {
	envelope, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", method, err)
	}
	resp, err := e.caller.RawRpcCall(ctx, envelope, archive)
	if err != nil {
		return nil, err
	}
	var out struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, fmt.Errorf("%s: decode envelope: %w", method, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%s: rpc error %d: %s", method, out.Error.Code, out.Error.Message)
	}
	return out.Result, nil
}
