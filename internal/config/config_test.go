package config

import "testing"

func TestValidateRequiresNetwork(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when balancer.network is empty")
	}
}

func TestValidateRejectsNegativeAllowedBlocksBehind(t *testing.T) {
	cfg := &Config{Balancer: BalancerConfig{Network: "ethereum", AllowedBlocksBehind: -1}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a negative allowed_blocks_behind")
	}
}

func TestValidateRejectsUnknownNodeType(t *testing.T) {
	cfg := &Config{Balancer: BalancerConfig{
		Network: "ethereum",
		Nodes:   []NodeConfig{{URL: "https://example.com", Type: "fast"}},
	}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized node type")
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := &Config{Balancer: BalancerConfig{
		Network:             "ethereum",
		AllowedBlocksBehind: 5,
		Nodes:               []NodeConfig{{URL: "https://a.example.com", Type: "normal"}},
	}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSDKConfigHeaders(t *testing.T) {
	c := SDKConfig{APIKey: "key123", Version: "2.3.4", Debug: true}
	headers := c.Headers()
	if headers["x-api-key"] != "key123" {
		t.Errorf("x-api-key = %q, want key123", headers["x-api-key"])
	}
	if headers["x-ttm-sdk-version"] != "2.3.4" {
		t.Errorf("x-ttm-sdk-version = %q, want 2.3.4", headers["x-ttm-sdk-version"])
	}
	if headers["x-ttm-sdk-debug"] != "true" {
		t.Errorf("x-ttm-sdk-debug = %q, want true", headers["x-ttm-sdk-debug"])
	}
	if headers["x-ttm-sdk-product"] != "rpc-balancer" {
		t.Errorf("x-ttm-sdk-product = %q, want rpc-balancer", headers["x-ttm-sdk-product"])
	}
}

func TestSDKConfigHeadersOmitsEmptyFields(t *testing.T) {
	headers := SDKConfig{}.Headers()
	if _, ok := headers["x-api-key"]; ok {
		t.Error("x-api-key should be absent when APIKey is empty")
	}
	if _, ok := headers["x-ttm-sdk-debug"]; ok {
		t.Error("x-ttm-sdk-debug should be absent when Debug is false")
	}
}
