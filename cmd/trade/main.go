// Command trade walks through the trading lifecycle on Stokenet: margin
// account setup, collateral deposit, order placement, and cancellation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/surgetrade/surge-go/gateway"
	"github.com/surgetrade/surge-go/oracle"
	"github.com/surgetrade/surge-go/radix"
	"github.com/surgetrade/surge-go/surge"
)

func main() {
	var (
		gatewayURL  = flag.String("gateway", "https://stokenet.radixdlt.com", "gateway API base URL")
		networkID   = flag.Uint("network", 2, "network ID (1 mainnet, 2 stokenet)")
		envRegistry = flag.String("env-registry", surge.StokenetEnvRegistry, "environment registry component")
		keystore    = flag.String("keystore", "trader.key", "path to the signing key, created if missing")
		account     = flag.String("account", "", "wallet account address holding XRD (required)")
		pair        = flag.String("pair", "BTC/USD", "pair to trade")
		size        = flag.String("size", "0.001", "order size, negative for short")
		collateral  = flag.String("collateral", "100", "XRD amount to deposit as collateral")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *account == "" {
		logger.Error("-account is required")
		os.Exit(1)
	}

	if err := run(logger, *gatewayURL, uint8(*networkID), *envRegistry, *keystore, *account, *pair, *size, *collateral); err != nil {
		logger.Error("trade walkthrough failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, gatewayURL string, networkID uint8, envRegistry, keystore, account, pair, size, collateral string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	key, err := loadOrCreateKey(keystore, logger)
	if err != nil {
		return err
	}

	accountAddr, err := radix.NewAddress(account)
	if err != nil {
		return fmt.Errorf("account address: %w", err)
	}
	registryAddr, err := radix.NewAddress(envRegistry)
	if err != nil {
		return fmt.Errorf("env registry address: %w", err)
	}
	orderSize, err := radix.NewDecimal(size)
	if err != nil {
		return fmt.Errorf("order size: %w", err)
	}
	collateralAmount, err := radix.NewDecimal(collateral)
	if err != nil {
		return fmt.Errorf("collateral amount: %w", err)
	}

	gw := gateway.NewClient(gatewayURL, networkID, gateway.WithLogger(logger))
	oc := oracle.NewClient(oracle.WithLogger(logger))
	exchange := surge.New(gw, oc, registryAddr, surge.WithLogger(logger))

	if _, err := exchange.LoadVariables(ctx); err != nil {
		return err
	}

	balance, err := gw.XRDBalance(ctx, accountAddr)
	if err != nil {
		return err
	}
	logger.Info("wallet ready", "account", accountAddr, "xrd_balance", balance)

	// Reuse the first margin account this key already controls, or create
	// a fresh one.
	permissions, err := exchange.Permissions(ctx, key.Public())
	if err != nil {
		return err
	}

	var marginAccount radix.Address
	if len(permissions.Level1) > 0 {
		marginAccount = permissions.Level1[0]
		logger.Info("reusing margin account", "margin_account", marginAccount)
	} else {
		marginAccount, err = exchange.CreateMarginAccount(ctx, accountAddr, key)
		if err != nil {
			return err
		}
		logger.Info("margin account created", "margin_account", marginAccount)

		if err := exchange.CreateRecoveryKey(ctx, accountAddr, key, marginAccount); err != nil {
			return err
		}
		logger.Info("recovery key minted")
	}

	cfg, err := gw.NetworkConfiguration(ctx)
	if err != nil {
		return err
	}
	xrd, err := radix.NewAddress(cfg.XRD)
	if err != nil {
		return err
	}

	if err := exchange.AddCollateral(ctx, accountAddr, key, marginAccount, xrd, collateralAmount); err != nil {
		return err
	}
	logger.Info("collateral deposited", "resource", xrd, "amount", collateralAmount)

	params := surge.OrderParams{
		Pair:          pair,
		Size:          orderSize,
		PriceLimit:    surge.NoPriceLimit(),
		SlippageLimit: surge.SlippagePercent(radix.MustDecimal("0.3")),
	}
	if err := exchange.MarginOrderRequest(ctx, accountAddr, key, marginAccount, params); err != nil {
		return err
	}
	logger.Info("market order submitted", "pair", pair, "size", orderSize)

	details, err := exchange.AccountDetails(ctx, marginAccount, 10)
	if err != nil {
		return err
	}
	printJSON("account", details)

	// Cancel whatever is still pending.
	var pending []uint64
	for _, req := range details.ActiveRequests {
		if req.Status == surge.RequestStatusActive || req.Status == surge.RequestStatusDormant {
			pending = append(pending, req.Index)
		}
	}
	if len(pending) > 0 {
		if err := exchange.CancelRequests(ctx, accountAddr, key, marginAccount, pending); err != nil {
			return err
		}
		logger.Info("pending requests canceled", "indexes", pending)
	}

	pairDetails, err := exchange.PairDetails(ctx, []string{pair})
	if err != nil {
		return err
	}
	printJSON("pair", pairDetails)

	return nil
}

// loadOrCreateKey loads the signing key, generating and saving one on first
// run.
func loadOrCreateKey(path string, logger *slog.Logger) (*radix.PrivateKey, error) {
	key, err := radix.LoadPrivateKey(path)
	if err == nil {
		logger.Info("signing key loaded", "path", path, "public_key", key.Public().Hex())
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key, err = radix.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := radix.SavePrivateKey(path, key); err != nil {
		return nil, err
	}
	logger.Info("signing key generated", "path", path, "public_key", key.Public().Hex())
	return key, nil
}

func printJSON(label string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal %s: %v\n", label, err)
		return
	}
	fmt.Printf("%s:\n%s\n", label, data)
}
