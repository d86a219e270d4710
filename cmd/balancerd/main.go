// Package main is the entry point for the RPC load balancer daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nodepool/rpc-balancer/business/balancer/app"
	"github.com/nodepool/rpc-balancer/business/balancer/domain"
	"github.com/nodepool/rpc-balancer/internal/apm"
	"github.com/nodepool/rpc-balancer/internal/config"
	"github.com/nodepool/rpc-balancer/internal/health"
	"github.com/nodepool/rpc-balancer/internal/httpclient"
	"github.com/nodepool/rpc-balancer/internal/logger"
	"github.com/nodepool/rpc-balancer/internal/metrics"
	"github.com/nodepool/rpc-balancer/internal/network"
	"github.com/nodepool/rpc-balancer/pkg/ui"
	"github.com/nodepool/rpc-balancer/pkg/ui/components"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	dashboard := flag.Bool("dashboard", false, "Show the live endpoint status dashboard")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rpc-balancer %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !*dashboard {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, *dashboard); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, dashboard bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if dashboard {
		log = logger.New(io.Discard, logLevel, cfg.App.Name)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name)
		log.Info(ctx, "starting RPC load balancer",
			"version", version,
			"network", cfg.Balancer.Network,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	client, err := httpclient.NewInstrumentedClient(httpclient.WithProviderName("rpc_balancer"))
	if err != nil {
		return fmt.Errorf("failed to create http client: %w", err)
	}

	balancer, err := app.New(client, log, app.Options{
		Network:              network.Network(cfg.Balancer.Network),
		StaticNodes:          staticNodesFromConfig(cfg.Balancer.Nodes),
		AllowedBlocksBehind:  cfg.Balancer.AllowedBlocksBehind,
		Interval:             cfg.Balancer.IntervalSeconds,
		OneTimeLoadBalancing: cfg.Balancer.OneTimeLoadBalancing,
		Headers:              cfg.SDK.Headers(),
	})
	if err != nil {
		return fmt.Errorf("failed to construct balancer: %w", err)
	}

	healthServer := health.NewServer(8081, version)
	healthServer.RegisterCheck("normal_pool_active", func(ctx context.Context) (bool, string) {
		if !balancer.HasActive(domain.NodeKindNormal) {
			return false, "no active normal endpoint"
		}
		return true, ""
	})
	healthServer.RegisterCheck("archive_pool_active", func(ctx context.Context) (bool, string) {
		if !balancer.HasActive(domain.NodeKindArchive) {
			return false, "no active archive endpoint"
		}
		return true, ""
	})
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	if dashboard {
		return runDashboard(ctx, balancer, cfg.Balancer.Network)
	}
	return runHeadless(ctx, balancer, log)
}

func staticNodesFromConfig(nodes []config.NodeConfig) []app.StaticNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]app.StaticNode, len(nodes))
	for i, n := range nodes {
		kind := domain.NodeKindNormal
		if n.Type == "archive" {
			kind = domain.NodeKindArchive
		}
		out[i] = app.StaticNode{URL: n.URL, Kind: kind}
	}
	return out
}

func runHeadless(ctx context.Context, balancer *app.Balancer, log *logger.Logger) error {
	if err := balancer.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize balancer: %w", err)
	}
	log.Info(ctx, "balancer initialized, probing active")

	<-ctx.Done()
	log.Info(ctx, "shutting down")
	balancer.Destroy()
	return nil
}

func runDashboard(ctx context.Context, balancer *app.Balancer, networkName string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := balancer.Init(ctx); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				balancer.Destroy()
				errCh <- nil
				return
			case <-ticker.C:
				ui.Send(snapshotMsg(balancer))
			}
		}
	}()

	if err := ui.Run(networkName); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func snapshotMsg(balancer *app.Balancer) ui.SnapshotMsg {
	snap := balancer.Snapshot()
	var rows []components.EndpointRow
	var stats components.Stats
	for _, kind := range []domain.NodeKind{domain.NodeKindNormal, domain.NodeKindArchive} {
		views := snap[kind]
		active := 0
		for _, v := range views {
			rows = append(rows, components.EndpointRow{
				URL:       v.URL,
				Kind:      v.Kind.String(),
				Active:    v.Active,
				Failed:    v.Failed,
				LastBlock: v.LastBlock,
				Latency:   v.LastResponseTime,
			})
			if v.Active {
				active = 1
			}
			if v.Failed {
				stats.ProbeFailures++
			}
		}
		if kind == domain.NodeKindNormal {
			stats.ActiveNormal = active
		} else {
			stats.ActiveArchive = active
		}
	}
	return ui.SnapshotMsg{Rows: rows, Stats: stats}
}
