package app

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/nodepool/rpc-balancer/internal/apperror"
	"github.com/nodepool/rpc-balancer/internal/network"
)

// rpcEnvelope is the minimal JSON-RPC 2.0 request shape every probe sends.
type rpcEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResult is the minimal JSON-RPC 2.0 response shape the codec decodes.
type rpcResult struct {
	Result json.RawMessage `json:"result"`
}

// StatusCodec knows how to build the probe request for one network family
// and how to decode the observed block height from the response.
type StatusCodec interface {
	ProbeRequest() []byte
	DecodeHeight(body []byte) (int64, error)
}

// CodecFor returns the Status Payload Codec for n's family, or
// CodeUnsupportedNetwork if the family has none (spec.md §4.2).
func CodecFor(n network.Network) (StatusCodec, error) {
	switch network.FamilyOf(n) {
	case network.FamilyUTXO:
		return utxoCodec{}, nil
	case network.FamilyEVM:
		return evmCodec{}, nil
	default:
		return nil, apperror.New(apperror.CodeUnsupportedNetwork,
			apperror.WithContext(string(n)))
	}
}

// utxoCodec probes via getblockcount; height is the result integer.
type utxoCodec struct{}

func (utxoCodec) ProbeRequest() []byte {
	b, _ := json.Marshal(rpcEnvelope{JSONRPC: "2.0", ID: 1, Method: "getblockcount", Params: []any{}})
	return b
}

func (utxoCodec) DecodeHeight(body []byte) (int64, error) {
	var resp rpcResult
	if err := json.Unmarshal(body, &resp); err != nil {
		return -1, err
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return -1, nil
	}
	var height int64
	if err := json.Unmarshal(resp.Result, &height); err != nil {
		return -1, nil
	}
	if height == 0 {
		// A result of 0 is falsy per spec.md §4.2, same as an absent or
		// null result.
		return -1, nil
	}
	return height, nil
}

// evmCodec probes via eth_blockNumber; height is a hex-encoded quantity.
// Shared by the EVM family and Tron per spec.md §4.2.
type evmCodec struct{}

func (evmCodec) ProbeRequest() []byte {
	b, _ := json.Marshal(rpcEnvelope{JSONRPC: "2.0", ID: 1, Method: "eth_blockNumber", Params: []any{}})
	return b
}

func (evmCodec) DecodeHeight(body []byte) (int64, error) {
	var resp rpcResult
	if err := json.Unmarshal(body, &resp); err != nil {
		return -1, err
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" || string(resp.Result) == `""` {
		return -1, nil
	}
	var hex string
	if err := json.Unmarshal(resp.Result, &hex); err != nil {
		return -1, nil
	}
	height, err := hexutil.DecodeUint64(hex)
	if err != nil {
		return -1, nil
	}
	return int64(height), nil
}
