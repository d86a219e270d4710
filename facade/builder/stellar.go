// Package builder holds external, chain-specific transaction builders. They
// are not part of the balancer core and never raise the balancer's own
// error taxonomy; this file exists to demonstrate the boundary.
package builder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nodepool/rpc-balancer/business/balancer/app"
	"github.com/nodepool/rpc-balancer/internal/apperror"
)

// Payment is the minimal field set a Stellar payment operation needs.
type Payment struct {
	Source      string
	Destination string
	Amount      string // decimal string, stroops precision
	Sequence    string // source account's current sequence number
}

// Stellar builds and submits Stellar payment transactions through a
// Caller's Post surface. It has no knowledge of endpoint pools or
// failover; it only knows the Stellar Horizon submission path.
type Stellar struct {
	caller app.Caller
}

// NewStellar returns a builder over caller.
func NewStellar(caller app.Caller) *Stellar {
	return &Stellar{caller: caller}
}

// BuildAndSubmit validates p and POSTs the resulting transaction envelope
// to the Horizon submission path. Validation failures surface as
// ParameterMismatch, InsufficientFunds, or MissingSequence — codes the
// balancer core never raises itself.
func (s *Stellar) BuildAndSubmit(ctx context.Context, p Payment) ([]byte, error) {
	if p.Source == "" || p.Destination == "" {
		return nil, apperror.New(apperror.CodeParameterMismatch,
			apperror.WithContext("payment source and destination are required"))
	}
	if p.Sequence == "" {
		return nil, apperror.New(apperror.CodeMissingSequence,
			apperror.WithContext("source account sequence number is required"))
	}
	if p.Amount == "" || p.Amount == "0" {
		return nil, apperror.New(apperror.CodeInsufficientFunds,
			apperror.WithContext("payment amount must be greater than zero"))
	}

	body, err := json.Marshal(map[string]any{
		"source_account": p.Source,
		"destination":    p.Destination,
		"amount":         p.Amount,
		"sequence":       p.Sequence,
	})
	if err != nil {
		return nil, fmt.Errorf("stellar payment: encode envelope: %w", err)
	}
	return s.caller.Post(ctx, "/transactions", body)
}
