package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/linkbudget/core"
	"github.com/signalsfoundry/linkbudget/internal/config"
	"github.com/signalsfoundry/linkbudget/internal/logging"
	"github.com/signalsfoundry/linkbudget/internal/nbi"
	"github.com/signalsfoundry/linkbudget/internal/observability"
	"github.com/signalsfoundry/linkbudget/model"
)

func main() {
	configPath := flag.String("config", "", "Optional config file (toml, yaml or json)")
	grpcAddr := flag.String("grpc-addr", "", "TCP address the gRPC server listens on (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (overrides config)")
	scenarioPath := flag.String("scenarios", "", "Path to the JSON scenario catalogue (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkbudget-server: %v\n", err)
		os.Exit(2)
	}
	if *grpcAddr != "" {
		cfg.GRPCAddr = *grpcAddr
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if *scenarioPath != "" {
		cfg.ScenarioPath = *scenarioPath
	}

	log := logging.New(cfg.Log)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", cfg.GRPCAddr), logging.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, cfg, log, lis); err != nil {
		log.Error(ctx, "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// run serves the link budget service on lis until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, log logging.Logger, lis net.Listener) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics collector: %w", err)
	}
	evalMetrics, err := observability.NewEvaluationCollector(nil)
	if err != nil {
		return fmt.Errorf("init evaluation metrics: %w", err)
	}

	catalogue := loadCatalogue(ctx, log, cfg.ScenarioPath)
	collector.SetScenarioCount(len(catalogue.Scenarios))

	metricsSrv := serveMetrics(ctx, cfg.MetricsAddr, collector, log)

	svc := nbi.NewLinkBudgetService(catalogue, log, nbi.WithEvaluationMetrics(evalMetrics))
	server := nbi.NewServer(svc, log, collector)

	errCh := make(chan error, 1)
	log.Info(ctx, "starting link budget gRPC server", logging.String("addr", lis.Addr().String()))
	go func() {
		errCh <- server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	}

	log.Info(context.Background(), "shutting down link budget server")
	server.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, collector *observability.Collector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(ctx, "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// loadCatalogue returns an empty catalogue when path is unset or
// unreadable; ad-hoc Evaluate calls still work without one.
func loadCatalogue(ctx context.Context, log logging.Logger, path string) *model.ScenarioSet {
	if path == "" {
		return &model.ScenarioSet{}
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warn(ctx, "skipping scenario catalogue", logging.String("path", path), logging.Err(err))
		return &model.ScenarioSet{}
	}
	defer f.Close()

	set, err := core.LoadScenarios(f)
	if err != nil {
		log.Warn(ctx, "failed to parse scenario catalogue", logging.String("path", path), logging.Err(err))
		return &model.ScenarioSet{}
	}

	log.Info(ctx, "loaded scenario catalogue",
		logging.String("path", path),
		logging.Int("count", len(set.Scenarios)),
	)
	return set
}
