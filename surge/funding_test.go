package surge

import (
	"math"
	"testing"
)

func almostEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestFundingRates(t *testing.T) {
	cfg := PairConfig{
		Funding1:     0.02,
		Funding2:     0.01,
		FundingShare: 0.1,
		FundingPool0: 0.001,
		FundingPool1: 0.002,
	}

	t.Run("longs pay", func(t *testing.T) {
		// skew = (100 - 50) * 10 = 500, raw skew integral clamped to
		// oi_long * price = 1000.
		rates := fundingRates(100, 50, 500, 2000, 10, cfg)

		almostEqual(t, "Funding1", rates.Funding1, 10)
		almostEqual(t, "Funding2", rates.Funding2, 10)
		almostEqual(t, "Funding2Raw", rates.Funding2Raw, 2000)
		almostEqual(t, "Funding2Max", rates.Funding2Max, 1000)
		almostEqual(t, "Funding2Min", rates.Funding2Min, -500)

		// funding = 20, share = 2
		// long index = 20/100, short index = -(20-2)/50
		// pool = 150*10*0.001 + 500*0.002 = 2.5, pool index = 2.5/150
		poolIndex := 2.5 / 150
		almostEqual(t, "LongAPR", rates.LongAPR, (0.2+poolIndex)/10)
		almostEqual(t, "Long24H", rates.Long24H, (0.2+poolIndex)/10/365)
		almostEqual(t, "ShortAPR", rates.ShortAPR, (-0.36+poolIndex)/10)
		almostEqual(t, "Short24H", rates.Short24H, (-0.36+poolIndex)/10/365)
		almostEqual(t, "Pool24H", rates.Pool24H, 4.5/365)
	})

	t.Run("shorts pay", func(t *testing.T) {
		// skew = (50 - 100) * 10 = -500, raw clamped to -oi_short * price.
		rates := fundingRates(50, 100, -500, -2000, 10, cfg)

		almostEqual(t, "Funding1", rates.Funding1, -10)
		almostEqual(t, "Funding2", rates.Funding2, -10)
		almostEqual(t, "Funding2Max", rates.Funding2Max, 500)
		almostEqual(t, "Funding2Min", rates.Funding2Min, -1000)

		poolIndex := 2.5 / 150
		almostEqual(t, "LongAPR", rates.LongAPR, (-0.36+poolIndex)/10)
		almostEqual(t, "ShortAPR", rates.ShortAPR, (0.2+poolIndex)/10)
		almostEqual(t, "Pool24H", rates.Pool24H, 4.5/365)
	})

	t.Run("no shorts means no funding", func(t *testing.T) {
		rates := fundingRates(100, 0, 1000, 500, 10, cfg)

		almostEqual(t, "Funding1", rates.Funding1, 20)
		if rates.LongAPR != 0 || rates.ShortAPR != 0 || rates.Pool24H != 0 {
			t.Errorf("funding should be zero with one-sided book, got %+v", rates)
		}
	})

	t.Run("no longs means no funding", func(t *testing.T) {
		rates := fundingRates(0, 100, -1000, -500, 10, cfg)
		if rates.LongAPR != 0 || rates.ShortAPR != 0 || rates.Pool24H != 0 {
			t.Errorf("funding should be zero with one-sided book, got %+v", rates)
		}
	})

	t.Run("raw skew integral inside clamp", func(t *testing.T) {
		rates := fundingRates(100, 50, 500, 300, 10, cfg)
		almostEqual(t, "Funding2", rates.Funding2, 3)
	})
}
