package types

import (
	"cosmossdk.io/math"
)

// SwapAction is a single hop of a swap. When AmountIn is unset the output of
// the previous action is used, which chains actions into a route.
type SwapAction struct {
	PoolID       uint64     `json:"pool_id"`
	TokenIn      string     `json:"token_in"`
	AmountIn     *math.Uint `json:"amount_in,omitempty"`
	TokenOut     string     `json:"token_out"`
	MinAmountOut math.Uint  `json:"min_amount_out"`
}

// HasAmountIn reports whether the action carries its own input amount.
func (a SwapAction) HasAmountIn() bool {
	return a.AmountIn != nil
}

func (a SwapAction) ValidateBasic() error {
	if a.TokenIn == "" || a.TokenOut == "" {
		return ErrInvalidToken.Wrap("empty token id")
	}
	if a.TokenIn == a.TokenOut {
		return ErrSameToken.Wrap(a.TokenIn)
	}
	return nil
}
