package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"network_registry/internal/app/port"
	"network_registry/internal/app/service"
	"network_registry/internal/infrastructure/configloader"
	"network_registry/internal/infrastructure/httpclient"
	networkregistry "network_registry/internal/infrastructure/network/registry"
	"network_registry/internal/infrastructure/restapi"
	"network_registry/internal/pkg/logger"
	"network_registry/internal/pkg/metrics"
	"network_registry/internal/pkg/utils"
)

func main() {
	// Bootstrap logger for everything before the real logging stack is up.
	bootLog := logrus.New()
	bootLog.SetFormatter(&logrus.JSONFormatter{})
	bootLog.SetOutput(os.Stdout)

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		bootLog.Warnf("Config file not loaded (%v), using defaults", err)
		cfg = configloader.Default()
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		bootLog.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck // best-effort flush on exit

	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))
	log := logger.NewSlogAdapter()

	log.Info("Configuration loaded", "path", cfgPath, "port", cfg.Server.Port)

	metrics.MustRegisterMetrics()

	registry := buildRegistry(cfg, log)

	// Enrichment runs in the background; the seed table already serves
	// requests while it is in flight.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Chainlist.FetchTimeoutSeconds)*time.Second)
		defer cancel()
		registry.EnsureInitialized(ctx)
	}()

	preferredByID := make(map[string][]string, len(cfg.Networks))
	for _, override := range cfg.Networks {
		preferredByID[override.Identifier] = override.PreferredRPCURLs
	}

	// Warm-up: resolve the configured networks once at boot so broken
	// overrides show up in the logs immediately instead of on first request.
	if len(cfg.Networks) > 0 {
		resolverService := service.NewResolverService(log, registry, cfg.Resolver.MaxConcurrentResolves)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			identifiers := make([]string, 0, len(cfg.Networks))
			for _, override := range cfg.Networks {
				identifiers = append(identifiers, override.Identifier)
			}
			resolved := resolverService.ResolveAll(ctx, identifiers, preferredByID)
			log.Info("Warm-up resolution finished", "requested", len(identifiers), "resolved", len(resolved))
		}()
	}

	networkHandler := restapi.NewNetworkHandler(log, registry, preferredByID)
	router := restapi.SetupRouter(networkHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting network registry server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	<-signalCh
	log.Info("Received termination signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}

func buildRegistry(cfg *configloader.Config, log port.Logger) *networkregistry.Registry {
	opts := []networkregistry.Option{
		networkregistry.WithProbeTimeout(time.Duration(cfg.Probe.TimeoutMillis) * time.Millisecond),
		networkregistry.WithResolveProbeTimeout(time.Duration(cfg.Probe.ResolveTimeoutMillis) * time.Millisecond),
		networkregistry.WithEnrichTimeout(time.Duration(cfg.Chainlist.FetchTimeoutSeconds) * time.Second),
		networkregistry.WithProbeRateLimit(cfg.Probe.RatePerSecond, cfg.Probe.Burst),
	}
	if cfg.Chainlist.Enabled {
		source := httpclient.NewChainlistClient(
			cfg.Chainlist.URL,
			time.Duration(cfg.Chainlist.FetchTimeoutSeconds)*time.Second,
			log,
		)
		opts = append(opts, networkregistry.WithMetadataSource(source))
	}
	return networkregistry.New(log, opts...)
}
