package types

import (
	"strings"
)

// FeePolicy describes how the growth of a pool's invariant during a swap is
// split between the protocol and an optional referrer. It is built for each
// swap from the module params and never stored.
type FeePolicy struct {
	ProtocolFee       uint32
	ProtocolRecipient string
	ReferralFee       uint32
	// ReferralRecipient is empty when the swap carries no referral.
	ReferralRecipient string
}

// NewFeePolicy builds the fee policy of a swap from params.
func NewFeePolicy(params Params, referral string) FeePolicy {
	return FeePolicy{
		ProtocolFee:       params.ExchangeFee,
		ProtocolRecipient: params.ExchangeAccount,
		ReferralFee:       params.ReferralFee,
		ReferralRecipient: strings.TrimSpace(referral),
	}
}

// HasReferral reports whether a referral recipient is set.
func (f FeePolicy) HasReferral() bool {
	return f.ReferralRecipient != ""
}

func (f FeePolicy) Validate() error {
	if f.ProtocolFee > FeeDivisor {
		return ErrFeeTooLarge.Wrapf("protocol fee %d", f.ProtocolFee)
	}
	if f.ReferralFee > FeeDivisor {
		return ErrFeeTooLarge.Wrapf("referral fee %d", f.ReferralFee)
	}
	if f.ProtocolFee > 0 && f.ProtocolRecipient == "" {
		return ErrInvalidAccount.Wrap("protocol fee without recipient")
	}
	return nil
}
