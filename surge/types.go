// Package surge is the main interface to the Surge margin trading protocol:
// account and pool queries, order submission, and collateral management.
package surge

import "github.com/surgetrade/surge-go/radix"

// RequestType classifies a request in the protocol's request queue. Order
// requests are classified from their price limit and trade direction.
type RequestType string

const (
	RequestTypeRemoveCollateral RequestType = "Remove Collateral"
	RequestTypeMarketLong       RequestType = "Market Long"
	RequestTypeMarketShort      RequestType = "Market Short"
	RequestTypeStopLong         RequestType = "Stop Long"
	RequestTypeLimitShort       RequestType = "Limit Short"
	RequestTypeLimitLong        RequestType = "Limit Long"
	RequestTypeStopShort        RequestType = "Stop Short"
	RequestTypeUnknown          RequestType = "Unknown"
)

// RequestStatus is the lifecycle state of a request.
type RequestStatus string

const (
	RequestStatusDormant  RequestStatus = "Dormant"
	RequestStatusActive   RequestStatus = "Active"
	RequestStatusExecuted RequestStatus = "Executed"
	RequestStatusCanceled RequestStatus = "Canceled"
	RequestStatusExpired  RequestStatus = "Expired"
	RequestStatusFailed   RequestStatus = "Failed"
	RequestStatusUnknown  RequestStatus = "Unknown"
)

// Position is an open margin trading position, marked to the current oracle
// price.
type Position struct {
	Pair              string
	Size              float64 // positive for long, negative for short
	Value             float64
	EntryPrice        float64
	MarkPrice         float64
	Margin            float64
	MarginMaintenance float64
	PnL               float64
	ROI               float64 // percent
}

// Collateral is a token deposited in a margin account to back positions.
type Collateral struct {
	Pair            string
	Resource        string
	MarkPrice       float64
	Amount          float64
	Value           float64
	Discount        float64
	ValueDiscounted float64
	Margin          float64
}

// AccountOverview aggregates an account's risk metrics from its positions
// and collateral.
type AccountOverview struct {
	AccountValue                   float64
	AccountValueDiscounted         float64
	AvailableMargin                float64
	AvailableMarginMaintenance     float64
	Balance                        float64
	TotalPnL                       float64
	TotalMargin                    float64
	TotalMarginMaintenance         float64
	TotalCollateralValue           float64
	TotalCollateralValueDiscounted float64
}

// RequestClaim is one resource claim of a remove-collateral request.
type RequestClaim struct {
	Resource string
	Size     float64
}

// RemoveCollateralDetails are the parameters of a remove-collateral request.
type RemoveCollateralDetails struct {
	TargetAccount string
	Claims        []RequestClaim
}

// MarginOrderDetails are the parameters of a margin order request.
type MarginOrderDetails struct {
	Pair             string
	Size             float64
	ReduceOnly       bool
	PriceLimit       PriceLimit
	SlippageLimit    SlippageLimit
	ActivateRequests []uint64
	CancelRequests   []uint64
}

// Request is one entry of an account's request queue. Exactly one of
// RemoveCollateral and MarginOrder is set, matching Type.
type Request struct {
	Type             RequestType
	Index            uint64
	Submission       string
	Expiry           string
	Status           RequestStatus
	RemoveCollateral *RemoveCollateralDetails
	MarginOrder      *MarginOrderDetails
}

// AccountDetails is the full state of a margin trading account.
type AccountDetails struct {
	Balance            float64
	Positions          []Position
	Collaterals        []Collateral
	ValidRequestsStart uint64
	ActiveRequests     []Request
	RequestsHistory    []Request
	Overview           AccountOverview
}

// PoolDetails is the state of the protocol's liquidity pool. Values are kept
// at full ledger precision.
type PoolDetails struct {
	TokenAmount           radix.Decimal // real sUSD balance
	Balance               radix.Decimal // virtual sUSD balance
	UnrealizedPoolFunding radix.Decimal
	PnLSnap               radix.Decimal
	SkewRatio             radix.Decimal
	SkewRatioCap          radix.Decimal
	LPSupply              radix.Decimal
	LPPrice               radix.Decimal
}

// PairConfig holds the trading parameters of a pair.
type PairConfig struct {
	Pair                  string
	PriceMaxAge           uint64 // seconds
	OIMax                 float64
	TradeSizeMin          float64
	UpdatePriceDeltaRatio float64
	UpdatePeriodSeconds   float64
	Margin                float64
	MarginMaintenance     float64
	Funding1              float64
	Funding2              float64
	Funding2Delta         float64
	Funding2Decay         float64
	FundingPool0          float64
	FundingPool1          float64
	FundingShare          float64
	Fee0                  float64
	Fee1                  float64
}

// FundingRates are the derived funding rates of a pair at the current price.
type FundingRates struct {
	Funding1    float64
	Funding2    float64
	Funding2Raw float64
	Funding2Max float64
	Funding2Min float64
	LongAPR     float64
	Long24H     float64
	ShortAPR    float64
	Short24H    float64
	Pool24H     float64
}

// PairDetails is the current state of a trading pair.
type PairDetails struct {
	Pair      string
	MarkPrice float64
	OILong    float64
	OIShort   float64
	OINet     float64
	Cost      float64
	Skew      float64
	Funding   FundingRates
	Config    PairConfig
}

// Permissions lists the margin accounts a badge rule controls, by access
// level.
type Permissions struct {
	Level1 []radix.Address
	Level2 []radix.Address
	Level3 []radix.Address
}

// CollateralConfig describes a resource accepted as collateral.
type CollateralConfig struct {
	Resource radix.Address
	Pair     string
	Discount float64
	Margin   float64
}
