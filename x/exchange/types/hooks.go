package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ExchangeHooks lets other modules observe exchange state changes. Hooks run
// inside the caller's branch; an error aborts the whole operation.
type ExchangeHooks interface {
	// AfterPoolCreated is called after a new pool is stored.
	AfterPoolCreated(ctx sdk.Context, poolID uint64, tokens []string, creator string) error

	// AfterLiquidityChanged is called after liquidity is added (isAdd) or removed.
	AfterLiquidityChanged(ctx sdk.Context, poolID uint64, account string, amounts []math.Uint, shares math.Uint, isAdd bool) error

	// AfterSwap is called after each executed swap action.
	AfterSwap(ctx sdk.Context, poolID uint64, account, tokenIn, tokenOut string, amountIn, amountOut math.Uint) error
}

// MultiExchangeHooks combines multiple hooks into a single hook that calls all of them.
type MultiExchangeHooks []ExchangeHooks

// NewMultiExchangeHooks creates a new MultiExchangeHooks from a list of hooks.
func NewMultiExchangeHooks(hooks ...ExchangeHooks) MultiExchangeHooks {
	return hooks
}

// AfterPoolCreated calls AfterPoolCreated on all registered hooks.
func (h MultiExchangeHooks) AfterPoolCreated(ctx sdk.Context, poolID uint64, tokens []string, creator string) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterPoolCreated(ctx, poolID, tokens, creator); err != nil {
			return err
		}
	}
	return nil
}

// AfterLiquidityChanged calls AfterLiquidityChanged on all registered hooks.
func (h MultiExchangeHooks) AfterLiquidityChanged(ctx sdk.Context, poolID uint64, account string, amounts []math.Uint, shares math.Uint, isAdd bool) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterLiquidityChanged(ctx, poolID, account, amounts, shares, isAdd); err != nil {
			return err
		}
	}
	return nil
}

// AfterSwap calls AfterSwap on all registered hooks.
func (h MultiExchangeHooks) AfterSwap(ctx sdk.Context, poolID uint64, account, tokenIn, tokenOut string, amountIn, amountOut math.Uint) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterSwap(ctx, poolID, account, tokenIn, tokenOut, amountIn, amountOut); err != nil {
			return err
		}
	}
	return nil
}
