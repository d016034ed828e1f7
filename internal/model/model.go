// Package model defines the snapshot rows the recorder writes to Postgres.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/surgetrade/surge-go/surge"
)

// PairSnapshot is one observation of a trading pair's state.
type PairSnapshot struct {
	RunID           uuid.UUID
	RecordedAt      time.Time
	Pair            string
	Price           float64
	OILong          float64
	OIShort         float64
	OINet           float64
	Skew            float64
	Cost            float64
	FundingLongAPR  float64
	FundingShortAPR float64
	FundingPool24H  float64
}

// PoolSnapshot is one observation of the protocol liquidity pool. Decimal
// fields keep the ledger's string representation to avoid precision loss.
type PoolSnapshot struct {
	RunID                 uuid.UUID
	RecordedAt            time.Time
	TokenAmount           string
	Balance               string
	UnrealizedPoolFunding string
	SkewRatio             string
	LPSupply              string
	LPPrice               string
}

// PairSnapshotFrom stamps pair details into a snapshot row.
func PairSnapshotFrom(runID uuid.UUID, at time.Time, d surge.PairDetails) PairSnapshot {
	return PairSnapshot{
		RunID:           runID,
		RecordedAt:      at,
		Pair:            d.Pair,
		Price:           d.MarkPrice,
		OILong:          d.OILong,
		OIShort:         d.OIShort,
		OINet:           d.OINet,
		Skew:            d.Skew,
		Cost:            d.Cost,
		FundingLongAPR:  d.Funding.LongAPR,
		FundingShortAPR: d.Funding.ShortAPR,
		FundingPool24H:  d.Funding.Pool24H,
	}
}

// PoolSnapshotFrom stamps pool details into a snapshot row.
func PoolSnapshotFrom(runID uuid.UUID, at time.Time, d surge.PoolDetails) PoolSnapshot {
	return PoolSnapshot{
		RunID:                 runID,
		RecordedAt:            at,
		TokenAmount:           d.TokenAmount.String(),
		Balance:               d.Balance.String(),
		UnrealizedPoolFunding: d.UnrealizedPoolFunding.String(),
		SkewRatio:             d.SkewRatio.String(),
		LPSupply:              d.LPSupply.String(),
		LPPrice:               d.LPPrice.String(),
	}
}
