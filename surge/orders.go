package surge

import (
	"context"
	"fmt"

	"github.com/surgetrade/surge-go/radix"
)

// CreateMarginAccount creates a new margin trading account owned by the
// key's signature badge and returns its address. account pays the fee and
// must be controlled by key.
func (e *Exchange) CreateMarginAccount(ctx context.Context, account radix.Address, key *radix.PrivateKey) (radix.Address, error) {
	if err := e.requireVariables(); err != nil {
		return radix.Address{}, err
	}

	rule, err := e.badgeRule(ctx, key.Public())
	if err != nil {
		return radix.Address{}, fmt.Errorf("create margin account: %w", err)
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.CallMethod(e.vars.ExchangeComponent, "create_account",
		radix.Enum(0),           // fee oath
		accessRule(rule),        // initial rule
		radix.Array("Bucket"),   // initial collateral
		radix.Enum(0),           // referral
		radix.Enum(0),           // dapp definition
	)

	intentHash, err := e.submit(ctx, builder, key)
	if err != nil {
		return radix.Address{}, fmt.Errorf("create margin account: %w", err)
	}

	entities, err := e.gateway.NewGlobalEntities(ctx, intentHash)
	if err != nil {
		return radix.Address{}, fmt.Errorf("create margin account: %w", err)
	}
	if len(entities) == 0 {
		return radix.Address{}, fmt.Errorf("create margin account: transaction %s created no entities", intentHash)
	}

	marginAccount := entities[0]
	e.logger.Info("margin account created", "address", marginAccount)
	return marginAccount, nil
}

// CreateRecoveryKey mints a recovery key for a margin account and deposits
// it into account.
func (e *Exchange) CreateRecoveryKey(ctx context.Context, account radix.Address, key *radix.PrivateKey, marginAccount radix.Address) error {
	if err := e.requireVariables(); err != nil {
		return err
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.CallMethod(e.vars.ExchangeComponent, "create_recovery_key",
		radix.Enum(0), // fee oath
		radix.Addr(marginAccount),
	)
	builder.DepositEntireWorktop(account)

	if _, err := e.submit(ctx, builder, key); err != nil {
		return fmt.Errorf("create recovery key: %w", err)
	}
	return nil
}

// AddCollateral withdraws amount of resource from account and deposits it
// as collateral in the margin account.
func (e *Exchange) AddCollateral(ctx context.Context, account radix.Address, key *radix.PrivateKey, marginAccount, resource radix.Address, amount radix.Decimal) error {
	if err := e.requireVariables(); err != nil {
		return err
	}
	if amount.IsNegative() || amount.IsZero() {
		return fmt.Errorf("add collateral: amount must be positive, got %s", amount)
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.Withdraw(account, resource, amount)
	builder.TakeAllFromWorktop(resource, "bucket1")
	builder.CallMethod(e.vars.ExchangeComponent, "add_collateral",
		radix.Enum(0), // fee oath
		radix.Addr(marginAccount),
		radix.Array("Bucket", radix.Bucket("bucket1")),
	)

	if _, err := e.submit(ctx, builder, key); err != nil {
		return fmt.Errorf("add collateral: %w", err)
	}
	return nil
}

// RemoveCollateralRequest queues a request to send amount of resource from
// the margin account back to account. The request executes once the
// protocol's keepers process it.
func (e *Exchange) RemoveCollateralRequest(ctx context.Context, account radix.Address, key *radix.PrivateKey, marginAccount, resource radix.Address, amount radix.Decimal) error {
	if err := e.requireVariables(); err != nil {
		return err
	}
	if amount.IsNegative() || amount.IsZero() {
		return fmt.Errorf("remove collateral: amount must be positive, got %s", amount)
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.CallMethod(e.vars.ExchangeComponent, "remove_collateral_request",
		radix.Enum(0), // fee oath
		radix.U64(e.expirySeconds),
		radix.Addr(marginAccount),
		radix.Addr(account), // target account
		radix.Array("Tuple",
			radix.Tuple(radix.Addr(resource), radix.Dec(amount)),
		),
	)

	if _, err := e.submit(ctx, builder, key); err != nil {
		return fmt.Errorf("remove collateral: %w", err)
	}
	return nil
}

// OrderParams are the common parameters of a margin order. Size is in
// tokens of the pair's base asset, positive for long and negative for
// short. Zero-valued limits mean no limit.
type OrderParams struct {
	Pair          string
	Size          radix.Decimal
	ReduceOnly    bool
	PriceLimit    PriceLimit
	SlippageLimit SlippageLimit
}

func (p OrderParams) validate() error {
	if p.Pair == "" {
		return fmt.Errorf("order: pair is required")
	}
	if p.Size.IsZero() {
		return fmt.Errorf("order: size must be nonzero")
	}
	return nil
}

// MarginOrderRequest queues a margin order. The order activates
// immediately and executes once a keeper processes it at a price satisfying
// its limits.
func (e *Exchange) MarginOrderRequest(ctx context.Context, account radix.Address, key *radix.PrivateKey, marginAccount radix.Address, params OrderParams) error {
	if err := e.requireVariables(); err != nil {
		return err
	}
	if err := params.validate(); err != nil {
		return err
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.CallMethod(e.vars.ExchangeComponent, "margin_order_request",
		radix.Enum(0), // fee oath
		radix.U64(0),  // delay seconds
		radix.U64(e.expirySeconds),
		radix.Addr(marginAccount),
		radix.Str(params.Pair),
		radix.Dec(params.Size),
		radix.Bool(params.ReduceOnly),
		params.PriceLimit.manifestValue(),
		params.SlippageLimit.manifestValue(),
		radix.Array("Enum"), // activate requests
		radix.Array("Enum"), // cancel requests
		radix.U8(1),         // initial status: active
	)

	if _, err := e.submit(ctx, builder, key); err != nil {
		return fmt.Errorf("margin order: %w", err)
	}
	return nil
}

// TPSL are optional take-profit and stop-loss trigger prices attached to an
// order. A nil price omits that trigger.
type TPSL struct {
	TakeProfit *radix.Decimal
	StopLoss   *radix.Decimal
}

func optionalDecimal(d *radix.Decimal) radix.Value {
	if d == nil {
		return radix.Enum(0)
	}
	return radix.Enum(1, radix.Dec(*d))
}

// MarginOrderTPSLRequest queues a margin order together with take-profit
// and stop-loss orders that arm when it executes.
func (e *Exchange) MarginOrderTPSLRequest(ctx context.Context, account radix.Address, key *radix.PrivateKey, marginAccount radix.Address, params OrderParams, tpsl TPSL) error {
	if err := e.requireVariables(); err != nil {
		return err
	}
	if err := params.validate(); err != nil {
		return err
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.CallMethod(e.vars.ExchangeComponent, "margin_order_tp_sl_request",
		radix.Enum(0), // fee oath
		radix.U64(0),  // delay seconds
		radix.U64(e.expirySeconds),
		radix.Addr(marginAccount),
		radix.Str(params.Pair),
		radix.Dec(params.Size),
		radix.Bool(params.ReduceOnly),
		params.PriceLimit.manifestValue(),
		params.SlippageLimit.manifestValue(),
		optionalDecimal(tpsl.TakeProfit),
		optionalDecimal(tpsl.StopLoss),
	)

	if _, err := e.submit(ctx, builder, key); err != nil {
		return fmt.Errorf("margin order tp/sl: %w", err)
	}
	return nil
}

// CancelRequests cancels the queued requests at the given indexes.
func (e *Exchange) CancelRequests(ctx context.Context, account radix.Address, key *radix.PrivateKey, marginAccount radix.Address, indexes []uint64) error {
	if err := e.requireVariables(); err != nil {
		return err
	}
	if len(indexes) == 0 {
		return nil
	}

	values := make([]radix.Value, 0, len(indexes))
	for _, index := range indexes {
		values = append(values, radix.U64(index))
	}

	builder := radix.NewManifestBuilder()
	builder.LockFee(account, e.feeLock)
	builder.CallMethod(e.vars.ExchangeComponent, "cancel_requests",
		radix.Enum(0), // fee oath
		radix.Addr(marginAccount),
		radix.Array("U64", values...),
	)

	if _, err := e.submit(ctx, builder, key); err != nil {
		return fmt.Errorf("cancel requests: %w", err)
	}
	return nil
}
