package radix

import (
	"encoding/json"
	"testing"
)

func TestNewDecimal(t *testing.T) {
	t.Run("parses plain values", func(t *testing.T) {
		for _, s := range []string{"0", "10", "-3.5", "0.000000000000000001"} {
			d, err := NewDecimal(s)
			if err != nil {
				t.Errorf("NewDecimal(%q) returned error: %v", s, err)
				continue
			}
			if d.String() != s {
				t.Errorf("String() = %q, want %q", d.String(), s)
			}
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := NewDecimal("ten"); err == nil {
			t.Error("expected error for non-numeric input")
		}
	})

	t.Run("rejects more than 18 fractional digits", func(t *testing.T) {
		if _, err := NewDecimal("0.0000000000000000001"); err == nil {
			t.Error("expected error for 19 fractional digits")
		}
	})
}

func TestDecimalFromFloat(t *testing.T) {
	d := DecimalFromFloat(0.001)
	if d.String() != "0.001" {
		t.Errorf("String() = %q, want %q", d.String(), "0.001")
	}
	if d.Float64() != 0.001 {
		t.Errorf("Float64() = %v, want 0.001", d.Float64())
	}
}

func TestDecimalJSON(t *testing.T) {
	data, err := json.Marshal(MustDecimal("-3.5"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"-3.5"` {
		t.Errorf("Marshal = %s, want %q", data, `"-3.5"`)
	}

	var d Decimal
	if err := json.Unmarshal([]byte(`"0.001"`), &d); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if d.String() != "0.001" {
		t.Errorf("Unmarshal = %q, want %q", d.String(), "0.001")
	}

	if err := json.Unmarshal([]byte(`"ten"`), &d); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestDecimalNeg(t *testing.T) {
	d := MustDecimal("2.5").Neg()
	if !d.IsNegative() {
		t.Error("negated value should be negative")
	}
	if d.String() != "-2.5" {
		t.Errorf("String() = %q, want %q", d.String(), "-2.5")
	}
	if !MustDecimal("0").IsZero() {
		t.Error("IsZero() = false for zero")
	}
}
