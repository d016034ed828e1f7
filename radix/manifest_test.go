package radix

import (
	"strings"
	"testing"
)

const (
	testAccount  = "account_rdx128y6j78mt0aqv6372evz28hrxp8mn06ccddkr7xppc88hyvynvjdwr"
	testExchange = "component_rdx1cr7gxwrvkjfh74f6w5hws7njt9z6ng5uqwdp23x972gx94lfg7cwn4"
	testResource = "resource_rdx1tknxxxxxxxxradxrdxxxxxxxxx009923554798xxxxxxxxxradxrd"
)

func TestValueRendering(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", Str("BTC/USD"), `"BTC/USD"`},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"u8", U8(1), "1u8"},
		{"u16", U16(512), "512u16"},
		{"u32", U32(7), "7u32"},
		{"u64", U64(10000000000), "10000000000u64"},
		{"decimal", Dec(MustDecimal("10")), `Decimal("10")`},
		{"address", Addr(MustAddress(testAccount)), `Address("` + testAccount + `")`},
		{"bucket", Bucket("bucket1"), `Bucket("bucket1")`},
		{"empty enum", Enum(0), "Enum<0u8>()"},
		{"enum with field", Enum(1, Dec(MustDecimal("0.5"))), `Enum<1u8>(Decimal("0.5"))`},
		{"nested enum", Enum(2, Enum(0, Enum(0, Enum(0, NonFungibleGlobalID("res:[abc]"))))),
			`Enum<2u8>(Enum<0u8>(Enum<0u8>(Enum<0u8>(NonFungibleGlobalId("res:[abc]")))))`},
		{"empty array", Array("Bucket"), "Array<Bucket>()"},
		{"string array", Array("String", Str("a"), Str("b")), `Array<String>("a", "b")`},
		{"tuple", Tuple(Addr(MustAddress(testResource)), Dec(MustDecimal("1.5"))),
			`Tuple(Address("` + testResource + `"), Decimal("1.5"))`},
		{"expression", Expression("ENTIRE_WORKTOP"), `Expression("ENTIRE_WORKTOP")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManifestBuilder(t *testing.T) {
	t.Run("call method layout", func(t *testing.T) {
		m := NewManifestBuilder().
			CallMethod(MustAddress(testExchange), "get_pool_details").
			Build()

		want := "CALL_METHOD\n" +
			"    Address(\"" + testExchange + "\")\n" +
			"    \"get_pool_details\"\n;\n"
		if m != want {
			t.Errorf("manifest = %q, want %q", m, want)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		build := func() string {
			return NewManifestBuilder().
				LockFee(MustAddress(testAccount), MustDecimal("10")).
				CallMethod(MustAddress(testExchange), "cancel_requests",
					Enum(0),
					Addr(MustAddress(testAccount)),
					Array("U64", U64(1), U64(2)),
				).
				Build()
		}
		if build() != build() {
			t.Error("same builder calls produced different text")
		}
	})

	t.Run("collateral deposit flow", func(t *testing.T) {
		m := NewManifestBuilder().
			LockFee(MustAddress(testAccount), MustDecimal("10")).
			Withdraw(MustAddress(testAccount), MustAddress(testResource), MustDecimal("100")).
			TakeAllFromWorktop(MustAddress(testResource), "bucket1").
			CallMethod(MustAddress(testExchange), "add_collateral",
				Enum(0),
				Addr(MustAddress(testAccount)),
				Array("Bucket", Bucket("bucket1")),
			).
			Build()

		for _, want := range []string{
			`"lock_fee"`,
			`Decimal("10")`,
			`"withdraw"`,
			"TAKE_ALL_FROM_WORKTOP",
			`Bucket("bucket1")`,
			`"add_collateral"`,
			`Array<Bucket>(Bucket("bucket1"))`,
		} {
			if !strings.Contains(m, want) {
				t.Errorf("manifest missing %q:\n%s", want, m)
			}
		}

		if got := strings.Count(m, "\n;\n"); got != 4 {
			t.Errorf("instruction count = %d, want 4", got)
		}
	})

	t.Run("deposit entire worktop", func(t *testing.T) {
		m := NewManifestBuilder().DepositEntireWorktop(MustAddress(testAccount)).Build()
		if !strings.Contains(m, `"deposit_batch"`) || !strings.Contains(m, `Expression("ENTIRE_WORKTOP")`) {
			t.Errorf("unexpected manifest:\n%s", m)
		}
	})

	t.Run("Len counts instructions", func(t *testing.T) {
		b := NewManifestBuilder()
		if b.Len() != 0 {
			t.Errorf("Len() = %d, want 0", b.Len())
		}
		b.LockFee(MustAddress(testAccount), MustDecimal("10"))
		if b.Len() != 1 {
			t.Errorf("Len() = %d, want 1", b.Len())
		}
	})
}
