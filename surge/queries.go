package surge

import (
	"context"
	"fmt"

	"github.com/surgetrade/surge-go/radix"
)

// AccountDetails fetches the full state of a margin account: positions and
// collateral marked to the current oracle prices, the request queue, and
// derived risk metrics. historyLen bounds the number of historical requests
// returned.
func (e *Exchange) AccountDetails(ctx context.Context, account radix.Address, historyLen uint64) (*AccountDetails, error) {
	if err := e.requireVariables(); err != nil {
		return nil, err
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.vars.ExchangeComponent, "get_account_details",
		radix.Addr(account),
		radix.U64(historyLen),
		radix.Enum(0),
	)

	result, err := e.preview(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("get account details: %w", err)
	}

	pairIDs, err := pairIDsFrom(result)
	if err != nil {
		return nil, fmt.Errorf("get account details: %w", err)
	}

	prices, err := e.oracle.Prices(ctx, pairIDs)
	if err != nil {
		return nil, fmt.Errorf("get account details: %w", err)
	}

	details, err := parseAccountDetails(result, prices)
	if err != nil {
		return nil, fmt.Errorf("get account details: %w", err)
	}
	return details, nil
}

// PoolDetails fetches the state of the protocol's liquidity pool.
func (e *Exchange) PoolDetails(ctx context.Context) (*PoolDetails, error) {
	if err := e.requireVariables(); err != nil {
		return nil, err
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.vars.ExchangeComponent, "get_pool_details")

	result, err := e.preview(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("get pool details: %w", err)
	}

	details, err := parsePoolDetails(result)
	if err != nil {
		return nil, fmt.Errorf("get pool details: %w", err)
	}
	return details, nil
}

// PairDetails fetches the state and configuration of trading pairs, with
// funding rates derived at the current oracle prices.
func (e *Exchange) PairDetails(ctx context.Context, pairIDs []string) ([]PairDetails, error) {
	if err := e.requireVariables(); err != nil {
		return nil, err
	}

	names := make([]radix.Value, 0, len(pairIDs))
	for _, pairID := range pairIDs {
		names = append(names, radix.Str(pairID))
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.vars.ExchangeComponent, "get_pair_details",
		radix.Array("String", names...),
	)

	result, err := e.preview(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("get pair details: %w", err)
	}

	prices, err := e.oracle.Prices(ctx, pairIDs)
	if err != nil {
		return nil, fmt.Errorf("get pair details: %w", err)
	}

	details := make([]PairDetails, 0, len(result.Elements))
	for _, elem := range result.Elements {
		d, err := parsePairDetails(elem, prices)
		if err != nil {
			return nil, fmt.Errorf("get pair details: %w", err)
		}
		details = append(details, d)
	}

	return details, nil
}

// Permissions fetches the margin accounts controlled by a public key's
// signature badge, grouped by access level.
func (e *Exchange) Permissions(ctx context.Context, pub radix.PublicKey) (*Permissions, error) {
	if err := e.requireVariables(); err != nil {
		return nil, err
	}

	rule, err := e.badgeRule(ctx, pub)
	if err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.vars.ExchangeComponent, "get_permissions", accessRule(rule))

	result, err := e.preview(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}

	permissions, err := parsePermissions(result)
	if err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}
	return permissions, nil
}

// AvailablePairs lists the trading pairs the protocol supports, with their
// configuration.
func (e *Exchange) AvailablePairs(ctx context.Context) ([]PairConfig, error) {
	if err := e.requireVariables(); err != nil {
		return nil, err
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.vars.ExchangeComponent, "get_pairs")

	result, err := e.preview(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("get pairs: %w", err)
	}

	configs := make([]PairConfig, 0, len(result.Elements))
	for _, elem := range result.Elements {
		cfg, err := parsePairConfig(elem)
		if err != nil {
			return nil, fmt.Errorf("get pairs: %w", err)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// AvailableCollaterals lists the resources accepted as margin collateral.
func (e *Exchange) AvailableCollaterals(ctx context.Context) ([]CollateralConfig, error) {
	if err := e.requireVariables(); err != nil {
		return nil, err
	}

	builder := radix.NewManifestBuilder()
	builder.CallMethod(e.vars.ExchangeComponent, "get_collaterals")

	result, err := e.preview(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("get collaterals: %w", err)
	}

	configs := make([]CollateralConfig, 0, len(result.Elements))
	for _, elem := range result.Elements {
		cfg, err := parseCollateralConfig(elem)
		if err != nil {
			return nil, fmt.Errorf("get collaterals: %w", err)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}
