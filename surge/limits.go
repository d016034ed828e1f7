package surge

import (
	"fmt"

	"github.com/surgetrade/surge-go/gateway"
	"github.com/surgetrade/surge-go/radix"
)

// PriceLimitKind selects the price condition of an order.
type PriceLimitKind uint8

const (
	// PriceLimitNone executes at any price.
	PriceLimitNone PriceLimitKind = iota
	// PriceLimitGte requires price >= value.
	PriceLimitGte
	// PriceLimitLte requires price <= value.
	PriceLimitLte
)

// PriceLimit is an order's price condition. The zero value is no limit.
type PriceLimit struct {
	Kind  PriceLimitKind
	Value radix.Decimal
}

// NoPriceLimit returns an unconditional price limit.
func NoPriceLimit() PriceLimit {
	return PriceLimit{Kind: PriceLimitNone}
}

// Gte returns a price limit requiring price >= value.
func Gte(value radix.Decimal) PriceLimit {
	return PriceLimit{Kind: PriceLimitGte, Value: value}
}

// Lte returns a price limit requiring price <= value.
func Lte(value radix.Decimal) PriceLimit {
	return PriceLimit{Kind: PriceLimitLte, Value: value}
}

func (l PriceLimit) String() string {
	switch l.Kind {
	case PriceLimitGte:
		return fmt.Sprintf("Gte(%s)", l.Value)
	case PriceLimitLte:
		return fmt.Sprintf("Lte(%s)", l.Value)
	default:
		return "None"
	}
}

func (l PriceLimit) manifestValue() radix.Value {
	switch l.Kind {
	case PriceLimitGte:
		return radix.Enum(1, radix.Dec(l.Value))
	case PriceLimitLte:
		return radix.Enum(2, radix.Dec(l.Value))
	default:
		return radix.Enum(0)
	}
}

func parsePriceLimit(v gateway.Value) (PriceLimit, error) {
	switch v.Variant() {
	case 0:
		return NoPriceLimit(), nil
	case 1, 2:
		f, err := v.Field(0)
		if err != nil {
			return PriceLimit{}, fmt.Errorf("price limit: %w", err)
		}
		value, err := radix.NewDecimal(f.Str())
		if err != nil {
			return PriceLimit{}, fmt.Errorf("price limit: %w", err)
		}
		if v.Variant() == 1 {
			return Gte(value), nil
		}
		return Lte(value), nil
	default:
		return PriceLimit{}, fmt.Errorf("price limit: unknown variant %d", v.Variant())
	}
}

// SlippageLimitKind selects how an order's slippage tolerance is expressed.
type SlippageLimitKind uint8

const (
	// SlippageLimitNone accepts any slippage.
	SlippageLimitNone SlippageLimitKind = iota
	// SlippageLimitPercent caps slippage as a fraction of price.
	SlippageLimitPercent
	// SlippageLimitAbsolute caps slippage as an absolute price distance.
	SlippageLimitAbsolute
)

// SlippageLimit is an order's slippage tolerance. The zero value is no
// limit.
type SlippageLimit struct {
	Kind  SlippageLimitKind
	Value radix.Decimal
}

// NoSlippageLimit returns an unlimited slippage tolerance.
func NoSlippageLimit() SlippageLimit {
	return SlippageLimit{Kind: SlippageLimitNone}
}

// SlippagePercent returns a percentage slippage limit.
func SlippagePercent(value radix.Decimal) SlippageLimit {
	return SlippageLimit{Kind: SlippageLimitPercent, Value: value}
}

// SlippageAbsolute returns an absolute slippage limit.
func SlippageAbsolute(value radix.Decimal) SlippageLimit {
	return SlippageLimit{Kind: SlippageLimitAbsolute, Value: value}
}

func (l SlippageLimit) String() string {
	switch l.Kind {
	case SlippageLimitPercent:
		return fmt.Sprintf("Percent(%s)", l.Value)
	case SlippageLimitAbsolute:
		return fmt.Sprintf("Absolute(%s)", l.Value)
	default:
		return "None"
	}
}

func (l SlippageLimit) manifestValue() radix.Value {
	switch l.Kind {
	case SlippageLimitPercent:
		return radix.Enum(1, radix.Dec(l.Value))
	case SlippageLimitAbsolute:
		return radix.Enum(2, radix.Dec(l.Value))
	default:
		return radix.Enum(0)
	}
}

func parseSlippageLimit(v gateway.Value) (SlippageLimit, error) {
	switch v.Variant() {
	case 0:
		return NoSlippageLimit(), nil
	case 1, 2:
		f, err := v.Field(0)
		if err != nil {
			return SlippageLimit{}, fmt.Errorf("slippage limit: %w", err)
		}
		value, err := radix.NewDecimal(f.Str())
		if err != nil {
			return SlippageLimit{}, fmt.Errorf("slippage limit: %w", err)
		}
		if v.Variant() == 1 {
			return SlippagePercent(value), nil
		}
		return SlippageAbsolute(value), nil
	default:
		return SlippageLimit{}, fmt.Errorf("slippage limit: unknown variant %d", v.Variant())
	}
}
