// Package ui provides the Bubble Tea dashboard for the RPC load balancer.
package ui

import "github.com/nodepool/rpc-balancer/pkg/ui/components"

// SnapshotMsg carries a fresh Balancer.Snapshot rendering; cmd/balancerd
// sends one every 2 seconds while the dashboard runs.
type SnapshotMsg struct {
	Rows  []components.EndpointRow
	Stats components.Stats
}

// ErrorMsg carries an error worth surfacing to the operator; cmd/balancerd
// sends one when Balancer.Init fails.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically to drive animated elements.
type TickMsg struct{}
