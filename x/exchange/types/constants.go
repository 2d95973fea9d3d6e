package types

import (
	"cosmossdk.io/math"
)

const (
	// FeeDivisor is the denominator of every fee rate; a fee of 30 means 0.3%.
	FeeDivisor uint32 = 10_000

	// NumTokens is the number of assets held by a constant product pool.
	NumTokens = 2

	// ShareDecimals is the number of decimals of pool shares.
	ShareDecimals uint8 = 24

	// DefaultExchangeFee is the protocol cut of every swap, in FeeDivisor units.
	DefaultExchangeFee uint32 = 30

	// DefaultReferralFee is the referral cut of every swap, in FeeDivisor units.
	DefaultReferralFee uint32 = 0

	// DefaultExchangeAccount receives the protocol fee shares.
	DefaultExchangeAccount = "exchange"
)

// InitSharesSupply returns the number of shares minted by the first deposit
// into an empty pool (10^24).
func InitSharesSupply() math.Uint {
	return math.NewUintFromString("1000000000000000000000000")
}
