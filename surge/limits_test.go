package surge

import (
	"testing"

	"github.com/surgetrade/surge-go/radix"
)

func TestPriceLimitManifestValue(t *testing.T) {
	tests := []struct {
		limit PriceLimit
		want  string
	}{
		{NoPriceLimit(), "Enum<0u8>()"},
		{Gte(radix.MustDecimal("50000")), `Enum<1u8>(Decimal("50000"))`},
		{Lte(radix.MustDecimal("45000.5")), `Enum<2u8>(Decimal("45000.5"))`},
	}

	for _, tt := range tests {
		if got := tt.limit.manifestValue().String(); got != tt.want {
			t.Errorf("%s.manifestValue() = %q, want %q", tt.limit, got, tt.want)
		}
	}
}

func TestSlippageLimitManifestValue(t *testing.T) {
	tests := []struct {
		limit SlippageLimit
		want  string
	}{
		{NoSlippageLimit(), "Enum<0u8>()"},
		{SlippagePercent(radix.MustDecimal("0.3")), `Enum<1u8>(Decimal("0.3"))`},
		{SlippageAbsolute(radix.MustDecimal("100")), `Enum<2u8>(Decimal("100"))`},
	}

	for _, tt := range tests {
		if got := tt.limit.manifestValue().String(); got != tt.want {
			t.Errorf("%s.manifestValue() = %q, want %q", tt.limit, got, tt.want)
		}
	}
}

func TestPriceLimitParse(t *testing.T) {
	tests := []struct {
		raw  string
		want PriceLimit
	}{
		{`{"kind": "Enum", "variant_id": "0"}`, NoPriceLimit()},
		{`{"kind": "Enum", "variant_id": "1", "fields": [{"kind": "Decimal", "value": "50000"}]}`,
			Gte(radix.MustDecimal("50000"))},
		{`{"kind": "Enum", "variant_id": "2", "fields": [{"kind": "Decimal", "value": "45000"}]}`,
			Lte(radix.MustDecimal("45000"))},
	}

	for _, tt := range tests {
		got, err := parsePriceLimit(decodeValue(t, tt.raw))
		if err != nil {
			t.Errorf("parsePriceLimit(%s) error = %v", tt.raw, err)
			continue
		}
		if got.Kind != tt.want.Kind || got.Value.String() != tt.want.Value.String() {
			t.Errorf("parsePriceLimit(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, err := parsePriceLimit(decodeValue(t, `{"kind": "Enum", "variant_id": "5"}`)); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestSlippageLimitParse(t *testing.T) {
	got, err := parseSlippageLimit(decodeValue(t, `{"kind": "Enum", "variant_id": "1", "fields": [{"kind": "Decimal", "value": "0.3"}]}`))
	if err != nil {
		t.Fatalf("parseSlippageLimit() error = %v", err)
	}
	if got.Kind != SlippageLimitPercent || got.Value.String() != "0.3" {
		t.Errorf("parseSlippageLimit() = %v", got)
	}
}
