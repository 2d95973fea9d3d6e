package types

import (
	"fmt"
	"strings"
)

// Params are the exchange wide settings applied to every swap.
type Params struct {
	// ExchangeFee is the protocol cut of the invariant growth, in FeeDivisor units.
	ExchangeFee uint32 `json:"exchange_fee" mapstructure:"exchange_fee"`
	// ReferralFee is the referral cut of the invariant growth, in FeeDivisor units.
	ReferralFee uint32 `json:"referral_fee" mapstructure:"referral_fee"`
	// ExchangeAccount receives the protocol fee shares.
	ExchangeAccount string `json:"exchange_account" mapstructure:"exchange_account"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		ExchangeFee:     DefaultExchangeFee,
		ReferralFee:     DefaultReferralFee,
		ExchangeAccount: DefaultExchangeAccount,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if err := validateFee(p.ExchangeFee); err != nil {
		return fmt.Errorf("exchange fee: %w", err)
	}
	if err := validateFee(p.ReferralFee); err != nil {
		return fmt.Errorf("referral fee: %w", err)
	}
	if p.ExchangeFee+p.ReferralFee > FeeDivisor {
		return ErrInvalidParams.Wrapf("exchange fee %d plus referral fee %d exceeds %d", p.ExchangeFee, p.ReferralFee, FeeDivisor)
	}
	if strings.TrimSpace(p.ExchangeAccount) == "" {
		return ErrInvalidParams.Wrap("exchange account cannot be empty")
	}
	return nil
}

func validateFee(fee uint32) error {
	if fee > FeeDivisor {
		return ErrInvalidParams.Wrapf("fee %d exceeds %d", fee, FeeDivisor)
	}
	return nil
}
