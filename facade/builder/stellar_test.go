package builder

import (
	"context"
	"testing"

	"github.com/nodepool/rpc-balancer/internal/apperror"
)

type fakeCaller struct {
	post func(ctx context.Context, path string, body []byte) ([]byte, error)
}

func (f *fakeCaller) RawRpcCall(ctx context.Context, request []byte, archive bool) ([]byte, error) {
	return nil, nil
}

func (f *fakeCaller) RawBatchRpcCall(ctx context.Context, requests []byte) ([]byte, error) {
	return nil, nil
}

func (f *fakeCaller) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return f.post(ctx, path, body)
}

func TestStellarBuildAndSubmitRejectsMissingFields(t *testing.T) {
	s := NewStellar(&fakeCaller{})

	_, err := s.BuildAndSubmit(context.Background(), Payment{})
	if apperror.GetCode(err) != apperror.CodeParameterMismatch {
		t.Fatalf("code = %v, want CodeParameterMismatch", apperror.GetCode(err))
	}
}

func TestStellarBuildAndSubmitRejectsMissingSequence(t *testing.T) {
	s := NewStellar(&fakeCaller{})

	_, err := s.BuildAndSubmit(context.Background(), Payment{
		Source:      "GSOURCE",
		Destination: "GDEST",
		Amount:      "10",
	})
	if apperror.GetCode(err) != apperror.CodeMissingSequence {
		t.Fatalf("code = %v, want CodeMissingSequence", apperror.GetCode(err))
	}
}

func TestStellarBuildAndSubmitRejectsZeroAmount(t *testing.T) {
	s := NewStellar(&fakeCaller{})

	_, err := s.BuildAndSubmit(context.Background(), Payment{
		Source:      "GSOURCE",
		Destination: "GDEST",
		Sequence:    "42",
		Amount:      "0",
	})
	if apperror.GetCode(err) != apperror.CodeInsufficientFunds {
		t.Fatalf("code = %v, want CodeInsufficientFunds", apperror.GetCode(err))
	}
}

func TestStellarBuildAndSubmitPostsValidPayment(t *testing.T) {
	var gotPath string
	var gotBody []byte
	caller := &fakeCaller{
		post: func(ctx context.Context, path string, body []byte) ([]byte, error) {
			gotPath = path
			gotBody = body
			return []byte(`{"hash":"abc123"}`), nil
		},
	}

	s := NewStellar(caller)
	resp, err := s.BuildAndSubmit(context.Background(), Payment{
		Source:      "GSOURCE",
		Destination: "GDEST",
		Amount:      "100.5",
		Sequence:    "42",
	})
	if err != nil {
		t.Fatalf("BuildAndSubmit: %v", err)
	}
	if gotPath != "/transactions" {
		t.Fatalf("path = %q, want /transactions", gotPath)
	}
	if len(gotBody) == 0 {
		t.Fatal("expected a non-empty submitted envelope")
	}
	if len(resp) == 0 {
		t.Fatal("expected a non-empty response")
	}
}
