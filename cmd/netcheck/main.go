package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"network_registry/internal/domain/entity"
	"network_registry/internal/infrastructure/httpclient"
	networkregistry "network_registry/internal/infrastructure/network/registry"
	"network_registry/internal/pkg/logger"
)

// netcheck resolves a working RPC endpoint for one network and prints the
// resulting config as JSON. Exit code 1 on any resolution failure, so it is
// scriptable as a connectivity check.
func main() {
	var (
		rpcList       = flag.String("rpc", "", "comma-separated preferred rpc urls, probed first")
		onlyPreferred = flag.Bool("only-preferred", false, "fail instead of falling back to the cached endpoint pool")
		timeout       = flag.Duration("timeout", 3*time.Second, "per-endpoint probe timeout")
		noEnrich      = flag.Bool("offline", false, "skip the remote chain list fetch, seed data only")
		logLevel      = flag.String("log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: netcheck [flags] <network identifier>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	identifier := flag.Arg(0)

	logger.InitSlog(*logLevel)
	log := logger.NewSlogAdapter()

	opts := []networkregistry.Option{
		networkregistry.WithResolveProbeTimeout(*timeout),
	}
	if !*noEnrich {
		opts = append(opts, networkregistry.WithMetadataSource(
			httpclient.NewChainlistClient("", 0, log),
		))
	}
	registry := networkregistry.New(log, opts...)

	var preferred []string
	if *rpcList != "" {
		for _, u := range strings.Split(*rpcList, ",") {
			preferred = append(preferred, strings.TrimSpace(u))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := registry.GetNetworkConfig(ctx, identifier, preferred, *onlyPreferred)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrUnknownNetwork):
			fmt.Fprintf(os.Stderr, "netcheck: unknown network %q\n", identifier)
		case errors.Is(err, entity.ErrNoHealthyEndpoint):
			fmt.Fprintf(os.Stderr, "netcheck: no working rpc endpoint for %q right now\n", identifier)
		default:
			fmt.Fprintf(os.Stderr, "netcheck: %v\n", err)
		}
		os.Exit(1)
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(cfg, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "netcheck: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
