// Command inspect dumps protocol state as JSON: registry variables, pool
// details, listed pairs and collaterals, and live pair state.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/surgetrade/surge-go/gateway"
	"github.com/surgetrade/surge-go/oracle"
	"github.com/surgetrade/surge-go/radix"
	"github.com/surgetrade/surge-go/surge"
)

func main() {
	var (
		gatewayURL  = flag.String("gateway", "https://mainnet.radixdlt.com", "gateway API base URL")
		networkID   = flag.Uint("network", 1, "network ID (1 mainnet, 2 stokenet)")
		envRegistry = flag.String("env-registry", surge.MainnetEnvRegistry, "environment registry component")
		pairs       = flag.String("pairs", "", "comma-separated pairs to inspect, e.g. BTC/USD,ETH/USD (default: all listed pairs)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := run(logger, *gatewayURL, uint8(*networkID), *envRegistry, *pairs); err != nil {
		logger.Error("inspect failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, gatewayURL string, networkID uint8, envRegistry, pairList string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	registryAddr, err := radix.NewAddress(envRegistry)
	if err != nil {
		return fmt.Errorf("env registry address: %w", err)
	}

	gw := gateway.NewClient(gatewayURL, networkID, gateway.WithLogger(logger))
	oc := oracle.NewClient(oracle.WithLogger(logger))
	exchange := surge.New(gw, oc, registryAddr, surge.WithLogger(logger))

	vars, err := exchange.LoadVariables(ctx)
	if err != nil {
		return err
	}
	printJSON("variables", vars)

	pool, err := exchange.PoolDetails(ctx)
	if err != nil {
		return err
	}
	printJSON("pool", pool)

	listed, err := exchange.AvailablePairs(ctx)
	if err != nil {
		return err
	}
	printJSON("listed_pairs", listed)

	collaterals, err := exchange.AvailableCollaterals(ctx)
	if err != nil {
		return err
	}
	printJSON("collaterals", collaterals)

	var pairIDs []string
	if pairList != "" {
		for _, p := range strings.Split(pairList, ",") {
			if p = strings.TrimSpace(p); p != "" {
				pairIDs = append(pairIDs, p)
			}
		}
	} else {
		for _, cfg := range listed {
			pairIDs = append(pairIDs, cfg.Pair)
		}
	}

	if len(pairIDs) > 0 {
		details, err := exchange.PairDetails(ctx, pairIDs)
		if err != nil {
			return err
		}
		printJSON("pairs", details)
	}

	return nil
}

func printJSON(label string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal %s: %v\n", label, err)
		return
	}
	fmt.Printf("%s:\n%s\n", label, data)
}
