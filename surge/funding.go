package surge

import "math"

const daysPerYear = 365

// fundingRates derives a pair's funding rates from its open interest, the
// raw skew integral, and the oracle price. When either side of the book is
// empty no funding flows.
func fundingRates(oiLong, oiShort, skew, funding2Raw, price float64, cfg PairConfig) FundingRates {
	rates := FundingRates{
		Funding1:    skew * cfg.Funding1,
		Funding2Raw: funding2Raw,
		Funding2Max: oiLong * price,
		Funding2Min: -oiShort * price,
	}
	rates.Funding2 = math.Min(math.Max(funding2Raw, rates.Funding2Min), rates.Funding2Max) * cfg.Funding2

	if oiLong == 0 || oiShort == 0 {
		return rates
	}

	var fundingLongIndex, fundingShortIndex, fundingShare float64
	funding := rates.Funding1 + rates.Funding2
	if funding > 0 {
		fundingLong := funding
		fundingShare = fundingLong * cfg.FundingShare
		fundingLongIndex = fundingLong / oiLong
		fundingShortIndex = -(fundingLong - fundingShare) / oiShort
	} else {
		fundingShort := -funding
		fundingShare = fundingShort * cfg.FundingShare
		fundingLongIndex = -(fundingShort - fundingShare) / oiLong
		fundingShortIndex = fundingShort / oiShort
	}

	oiNet := oiLong + oiShort
	fundingPool := oiNet*price*cfg.FundingPool0 + math.Abs(skew)*cfg.FundingPool1
	fundingPoolIndex := fundingPool / oiNet

	rates.LongAPR = (fundingLongIndex + fundingPoolIndex) / price
	rates.Long24H = rates.LongAPR / daysPerYear
	rates.ShortAPR = (fundingShortIndex + fundingPoolIndex) / price
	rates.Short24H = rates.ShortAPR / daysPerYear

	fundingPool += fundingShare
	rates.Pool24H = fundingPool / daysPerYear

	return rates
}
