package surge

import (
	"fmt"
	"math"

	"github.com/surgetrade/surge-go/gateway"
	"github.com/surgetrade/surge-go/radix"
)

// Parsers for the programmatic JSON the exchange component returns from
// preview calls. Field order follows the on-ledger struct layouts.

func fieldStr(v gateway.Value, i int) (string, error) {
	f, err := v.Field(i)
	if err != nil {
		return "", err
	}
	return f.Str(), nil
}

func fieldFloat(v gateway.Value, i int) (float64, error) {
	f, err := v.Field(i)
	if err != nil {
		return 0, err
	}
	return f.Float()
}

func fieldUint(v gateway.Value, i int) (uint64, error) {
	f, err := v.Field(i)
	if err != nil {
		return 0, err
	}
	return f.Uint()
}

func fieldDecimal(v gateway.Value, i int) (radix.Decimal, error) {
	f, err := v.Field(i)
	if err != nil {
		return radix.Decimal{}, err
	}
	return radix.NewDecimal(f.Str())
}

func markPrice(prices map[string]float64, pair string) (float64, error) {
	price, ok := prices[pair]
	if !ok {
		return 0, fmt.Errorf("no oracle price for pair %q", pair)
	}
	return price, nil
}

func parsePosition(elem gateway.Value, prices map[string]float64) (Position, error) {
	pair, err := fieldStr(elem, 0)
	if err != nil {
		return Position{}, fmt.Errorf("position: %w", err)
	}
	size, err := fieldFloat(elem, 1)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: %w", pair, err)
	}
	margin, err := fieldFloat(elem, 2)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: %w", pair, err)
	}
	marginMaintenance, err := fieldFloat(elem, 3)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: %w", pair, err)
	}
	cost, err := fieldFloat(elem, 4)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: %w", pair, err)
	}
	funding, err := fieldFloat(elem, 5)
	if err != nil {
		return Position{}, fmt.Errorf("position %s: %w", pair, err)
	}

	price, err := markPrice(prices, pair)
	if err != nil {
		return Position{}, err
	}

	value := size * price
	pnl := value - cost - funding

	return Position{
		Pair:              pair,
		Size:              size,
		Value:             value,
		EntryPrice:        cost / size,
		MarkPrice:         price,
		Margin:            margin * price,
		MarginMaintenance: marginMaintenance * price,
		PnL:               pnl,
		ROI:               pnl / math.Abs(cost) * 100,
	}, nil
}

func parseCollateral(elem gateway.Value, prices map[string]float64) (Collateral, error) {
	pair, err := fieldStr(elem, 0)
	if err != nil {
		return Collateral{}, fmt.Errorf("collateral: %w", err)
	}
	resource, err := fieldStr(elem, 1)
	if err != nil {
		return Collateral{}, fmt.Errorf("collateral %s: %w", pair, err)
	}
	amount, err := fieldFloat(elem, 2)
	if err != nil {
		return Collateral{}, fmt.Errorf("collateral %s: %w", pair, err)
	}
	discount, err := fieldFloat(elem, 3)
	if err != nil {
		return Collateral{}, fmt.Errorf("collateral %s: %w", pair, err)
	}
	margin, err := fieldFloat(elem, 4)
	if err != nil {
		return Collateral{}, fmt.Errorf("collateral %s: %w", pair, err)
	}

	price, err := markPrice(prices, pair)
	if err != nil {
		return Collateral{}, err
	}

	value := amount * price

	return Collateral{
		Pair:            pair,
		Resource:        resource,
		MarkPrice:       price,
		Amount:          amount,
		Value:           value,
		Discount:        discount,
		ValueDiscounted: value * discount,
		Margin:          margin * price,
	}, nil
}

func overviewFrom(balance float64, positions []Position, collaterals []Collateral) AccountOverview {
	o := AccountOverview{Balance: balance}

	for _, p := range positions {
		o.TotalPnL += p.PnL
		o.TotalMargin += p.Margin
		o.TotalMarginMaintenance += p.MarginMaintenance
	}
	for _, c := range collaterals {
		o.TotalMargin += c.Margin
		o.TotalMarginMaintenance += c.Margin
		o.TotalCollateralValue += c.Value
		o.TotalCollateralValueDiscounted += c.ValueDiscounted
	}

	o.AccountValue = balance + o.TotalPnL + o.TotalCollateralValue
	o.AccountValueDiscounted = balance + o.TotalPnL + o.TotalCollateralValueDiscounted
	o.AvailableMargin = o.AccountValueDiscounted - o.TotalMargin
	o.AvailableMarginMaintenance = o.AccountValueDiscounted - o.TotalMarginMaintenance

	return o
}

func parseAccountDetails(result gateway.Value, prices map[string]float64) (*AccountDetails, error) {
	balance, err := fieldFloat(result, 0)
	if err != nil {
		return nil, fmt.Errorf("account details: %w", err)
	}

	positionsField, err := result.Field(1)
	if err != nil {
		return nil, fmt.Errorf("account details: %w", err)
	}
	positions := make([]Position, 0, len(positionsField.Elements))
	for _, elem := range positionsField.Elements {
		p, err := parsePosition(elem, prices)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}

	collateralsField, err := result.Field(2)
	if err != nil {
		return nil, fmt.Errorf("account details: %w", err)
	}
	collaterals := make([]Collateral, 0, len(collateralsField.Elements))
	for _, elem := range collateralsField.Elements {
		c, err := parseCollateral(elem, prices)
		if err != nil {
			return nil, err
		}
		collaterals = append(collaterals, c)
	}

	validRequestsStart, err := fieldUint(result, 3)
	if err != nil {
		return nil, fmt.Errorf("account details: %w", err)
	}

	activeRequests, err := parseRequests(result, 4)
	if err != nil {
		return nil, err
	}
	requestsHistory, err := parseRequests(result, 5)
	if err != nil {
		return nil, err
	}

	return &AccountDetails{
		Balance:            balance,
		Positions:          positions,
		Collaterals:        collaterals,
		ValidRequestsStart: validRequestsStart,
		ActiveRequests:     activeRequests,
		RequestsHistory:    requestsHistory,
		Overview:           overviewFrom(balance, positions, collaterals),
	}, nil
}

// pairIDsFrom collects the pairs referenced by an account's positions and
// collateral, for a single oracle price fetch.
func pairIDsFrom(result gateway.Value) ([]string, error) {
	seen := make(map[string]bool)
	var pairIDs []string

	for _, i := range []int{1, 2} {
		field, err := result.Field(i)
		if err != nil {
			return nil, fmt.Errorf("account details: %w", err)
		}
		for _, elem := range field.Elements {
			pair, err := fieldStr(elem, 0)
			if err != nil {
				return nil, err
			}
			if !seen[pair] {
				seen[pair] = true
				pairIDs = append(pairIDs, pair)
			}
		}
	}

	return pairIDs, nil
}

func parseRequests(result gateway.Value, i int) ([]Request, error) {
	field, err := result.Field(i)
	if err != nil {
		return nil, fmt.Errorf("account details: %w", err)
	}

	requests := make([]Request, 0, len(field.Elements))
	for _, elem := range field.Elements {
		r, err := parseRequest(elem)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, nil
}

var requestStatuses = map[uint64]RequestStatus{
	0: RequestStatusDormant,
	1: RequestStatusActive,
	2: RequestStatusExecuted,
	3: RequestStatusCanceled,
	4: RequestStatusExpired,
	5: RequestStatusFailed,
}

func parseRequest(elem gateway.Value) (Request, error) {
	index, err := fieldUint(elem, 0)
	if err != nil {
		return Request{}, fmt.Errorf("request: %w", err)
	}
	submission, err := fieldStr(elem, 2)
	if err != nil {
		return Request{}, fmt.Errorf("request %d: %w", index, err)
	}
	expiry, err := fieldStr(elem, 3)
	if err != nil {
		return Request{}, fmt.Errorf("request %d: %w", index, err)
	}
	statusID, err := fieldUint(elem, 4)
	if err != nil {
		return Request{}, fmt.Errorf("request %d: %w", index, err)
	}

	status, ok := requestStatuses[statusID]
	if !ok {
		status = RequestStatusUnknown
	}

	request := Request{
		Index:      index,
		Submission: submission,
		Expiry:     expiry,
		Status:     status,
	}

	body, err := elem.Field(1)
	if err != nil {
		return Request{}, fmt.Errorf("request %d: %w", index, err)
	}

	switch body.Variant() {
	case 0:
		details, err := parseRemoveCollateralDetails(body)
		if err != nil {
			return Request{}, fmt.Errorf("request %d: %w", index, err)
		}
		request.Type = RequestTypeRemoveCollateral
		request.RemoveCollateral = details
	case 1:
		details, err := parseMarginOrderDetails(body)
		if err != nil {
			return Request{}, fmt.Errorf("request %d: %w", index, err)
		}
		request.Type = orderRequestType(details.PriceLimit.Kind, details.Size >= 0)
		request.MarginOrder = details
	default:
		request.Type = RequestTypeUnknown
	}

	return request, nil
}

func orderRequestType(kind PriceLimitKind, long bool) RequestType {
	switch {
	case kind == PriceLimitNone && long:
		return RequestTypeMarketLong
	case kind == PriceLimitNone:
		return RequestTypeMarketShort
	case kind == PriceLimitGte && long:
		return RequestTypeStopLong
	case kind == PriceLimitGte:
		return RequestTypeStopShort
	case kind == PriceLimitLte && long:
		return RequestTypeLimitLong
	default:
		return RequestTypeLimitShort
	}
}

func parseRemoveCollateralDetails(body gateway.Value) (*RemoveCollateralDetails, error) {
	wrapper, err := body.Field(0)
	if err != nil {
		return nil, err
	}

	targetAccount, err := fieldStr(wrapper, 0)
	if err != nil {
		return nil, err
	}

	claimsField, err := wrapper.Field(1)
	if err != nil {
		return nil, err
	}
	claims := make([]RequestClaim, 0, len(claimsField.Elements))
	for _, claim := range claimsField.Elements {
		resource, err := fieldStr(claim, 0)
		if err != nil {
			return nil, err
		}
		size, err := fieldFloat(claim, 1)
		if err != nil {
			return nil, err
		}
		claims = append(claims, RequestClaim{Resource: resource, Size: size})
	}

	return &RemoveCollateralDetails{
		TargetAccount: targetAccount,
		Claims:        claims,
	}, nil
}

func parseMarginOrderDetails(body gateway.Value) (*MarginOrderDetails, error) {
	wrapper, err := body.Field(0)
	if err != nil {
		return nil, err
	}

	pair, err := fieldStr(wrapper, 0)
	if err != nil {
		return nil, err
	}
	size, err := fieldFloat(wrapper, 1)
	if err != nil {
		return nil, err
	}
	reduceOnlyField, err := wrapper.Field(2)
	if err != nil {
		return nil, err
	}
	reduceOnly, err := reduceOnlyField.Bool()
	if err != nil {
		return nil, err
	}

	priceLimitField, err := wrapper.Field(3)
	if err != nil {
		return nil, err
	}
	priceLimit, err := parsePriceLimit(priceLimitField)
	if err != nil {
		return nil, err
	}

	slippageLimitField, err := wrapper.Field(4)
	if err != nil {
		return nil, err
	}
	slippageLimit, err := parseSlippageLimit(slippageLimitField)
	if err != nil {
		return nil, err
	}

	activateRequests, err := indexList(wrapper, 5)
	if err != nil {
		return nil, err
	}
	cancelRequests, err := indexList(wrapper, 6)
	if err != nil {
		return nil, err
	}

	return &MarginOrderDetails{
		Pair:             pair,
		Size:             size,
		ReduceOnly:       reduceOnly,
		PriceLimit:       priceLimit,
		SlippageLimit:    slippageLimit,
		ActivateRequests: activateRequests,
		CancelRequests:   cancelRequests,
	}, nil
}

func indexList(wrapper gateway.Value, i int) ([]uint64, error) {
	field, err := wrapper.Field(i)
	if err != nil {
		return nil, err
	}
	indexes := make([]uint64, 0, len(field.Elements))
	for _, elem := range field.Elements {
		index, err := elem.Uint()
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}

func parsePoolDetails(result gateway.Value) (*PoolDetails, error) {
	var details PoolDetails
	fields := []struct {
		index int
		dst   *radix.Decimal
	}{
		{0, &details.TokenAmount},
		{1, &details.Balance},
		{2, &details.UnrealizedPoolFunding},
		{3, &details.PnLSnap},
		{4, &details.SkewRatio},
		{5, &details.SkewRatioCap},
		{6, &details.LPSupply},
		{7, &details.LPPrice},
	}

	for _, f := range fields {
		d, err := fieldDecimal(result, f.index)
		if err != nil {
			return nil, fmt.Errorf("pool details: %w", err)
		}
		*f.dst = d
	}

	return &details, nil
}

func parsePairConfig(v gateway.Value) (PairConfig, error) {
	pair, err := fieldStr(v, 0)
	if err != nil {
		return PairConfig{}, fmt.Errorf("pair config: %w", err)
	}
	priceMaxAge, err := fieldUint(v, 1)
	if err != nil {
		return PairConfig{}, fmt.Errorf("pair config %s: %w", pair, err)
	}

	cfg := PairConfig{Pair: pair, PriceMaxAge: priceMaxAge}
	fields := []struct {
		index int
		dst   *float64
	}{
		{2, &cfg.OIMax},
		{3, &cfg.TradeSizeMin},
		{4, &cfg.UpdatePriceDeltaRatio},
		{5, &cfg.UpdatePeriodSeconds},
		{6, &cfg.Margin},
		{7, &cfg.MarginMaintenance},
		{8, &cfg.Funding1},
		{9, &cfg.Funding2},
		{10, &cfg.Funding2Delta},
		{11, &cfg.Funding2Decay},
		{12, &cfg.FundingPool0},
		{13, &cfg.FundingPool1},
		{14, &cfg.FundingShare},
		{15, &cfg.Fee0},
		{16, &cfg.Fee1},
	}

	for _, f := range fields {
		value, err := fieldFloat(v, f.index)
		if err != nil {
			return PairConfig{}, fmt.Errorf("pair config %s: %w", pair, err)
		}
		*f.dst = value
	}

	return cfg, nil
}

func parsePairDetails(elem gateway.Value, prices map[string]float64) (PairDetails, error) {
	pair, err := fieldStr(elem, 0)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details: %w", err)
	}

	poolPosition, err := elem.Field(1)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details %s: %w", pair, err)
	}
	oiLong, err := fieldFloat(poolPosition, 0)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details %s: %w", pair, err)
	}
	oiShort, err := fieldFloat(poolPosition, 1)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details %s: %w", pair, err)
	}
	cost, err := fieldFloat(poolPosition, 2)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details %s: %w", pair, err)
	}
	funding2Raw, err := fieldFloat(poolPosition, 5)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details %s: %w", pair, err)
	}

	configField, err := elem.Field(2)
	if err != nil {
		return PairDetails{}, fmt.Errorf("pair details %s: %w", pair, err)
	}
	cfg, err := parsePairConfig(configField)
	if err != nil {
		return PairDetails{}, err
	}

	price, err := markPrice(prices, pair)
	if err != nil {
		return PairDetails{}, err
	}

	skew := (oiLong - oiShort) * price

	return PairDetails{
		Pair:      pair,
		MarkPrice: price,
		OILong:    oiLong,
		OIShort:   oiShort,
		OINet:     oiLong + oiShort,
		Cost:      cost,
		Skew:      skew,
		Funding:   fundingRates(oiLong, oiShort, skew, funding2Raw, price, cfg),
		Config:    cfg,
	}, nil
}

func parsePermissions(result gateway.Value) (*Permissions, error) {
	var permissions Permissions
	levels := []struct {
		index int
		dst   *[]radix.Address
	}{
		{0, &permissions.Level1},
		{1, &permissions.Level2},
		{2, &permissions.Level3},
	}

	for _, level := range levels {
		field, err := result.Field(level.index)
		if err != nil {
			return nil, fmt.Errorf("permissions: %w", err)
		}
		addresses := make([]radix.Address, 0, len(field.Elements))
		for _, elem := range field.Elements {
			addr, err := radix.NewAddress(elem.Str())
			if err != nil {
				return nil, fmt.Errorf("permissions: %w", err)
			}
			addresses = append(addresses, addr)
		}
		*level.dst = addresses
	}

	return &permissions, nil
}

func parseCollateralConfig(elem gateway.Value) (CollateralConfig, error) {
	resourceStr, err := fieldStr(elem, 0)
	if err != nil {
		return CollateralConfig{}, fmt.Errorf("collateral config: %w", err)
	}
	resource, err := radix.NewAddress(resourceStr)
	if err != nil {
		return CollateralConfig{}, fmt.Errorf("collateral config: %w", err)
	}
	pair, err := fieldStr(elem, 1)
	if err != nil {
		return CollateralConfig{}, fmt.Errorf("collateral config %s: %w", resource, err)
	}
	discount, err := fieldFloat(elem, 2)
	if err != nil {
		return CollateralConfig{}, fmt.Errorf("collateral config %s: %w", resource, err)
	}
	margin, err := fieldFloat(elem, 3)
	if err != nil {
		return CollateralConfig{}, fmt.Errorf("collateral config %s: %w", resource, err)
	}

	return CollateralConfig{
		Resource: resource,
		Pair:     pair,
		Discount: discount,
		Margin:   margin,
	}, nil
}
