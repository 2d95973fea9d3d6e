package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

type executedSwap struct {
	poolID    uint64
	tokenIn   string
	tokenOut  string
	amountIn  math.Uint
	amountOut math.Uint
	pool      *types.Pool
}

// Swap executes actions in order against the sender's deposits and returns
// the output of the last one. An action without AmountIn spends the previous
// action's output. If referral is set and registered in a pool, it receives
// the referral cut of that pool's fee. Either every action applies or none.
func (k Keeper) Swap(ctx sdk.Context, sender string, actions []types.SwapAction, referral string) (math.Uint, error) {
	if len(actions) == 0 {
		return math.ZeroUint(), types.ErrEmptyActions
	}

	var executed []executedSwap
	err := runAtomic(ctx, func(ctx sdk.Context) error {
		fees := types.NewFeePolicy(k.GetParams(ctx), referral)

		var prev *math.Uint
		for i, action := range actions {
			if err := action.ValidateBasic(); err != nil {
				return errorsmod.Wrapf(err, "action %d", i)
			}

			var amountIn math.Uint
			switch {
			case action.HasAmountIn():
				amountIn = *action.AmountIn
			case prev != nil:
				amountIn = *prev
			default:
				return types.ErrZeroAmount.Wrapf("action %d has no input amount and no previous result", i)
			}

			res, err := k.swapOnPool(ctx, sender, action.PoolID, action.TokenIn, amountIn, action.TokenOut, action.MinAmountOut, fees)
			if err != nil {
				return errorsmod.Wrapf(err, "action %d", i)
			}
			executed = append(executed, res)
			prev = &res.amountOut
		}
		return nil
	})
	if err != nil {
		if types.ErrInvariantViolation.Is(err) && k.metrics != nil {
			k.metrics.InvariantViolations.Inc()
		}
		if k.metrics != nil {
			k.metrics.SwapsTotal.WithLabelValues("failed").Inc()
		}
		return math.ZeroUint(), err
	}

	for _, res := range executed {
		if k.metrics != nil {
			poolIDStr := fmt.Sprintf("%d", res.poolID)
			k.metrics.SwapsTotal.WithLabelValues("success").Inc()
			k.metrics.SwapVolume.WithLabelValues(poolIDStr, res.tokenIn).Add(toFloat(res.amountIn))
		}
		k.recordPoolState(res.poolID, res.pool)
	}
	last := executed[len(executed)-1]
	k.Logger(ctx).Info("swap executed", "account", sender, "hops", len(executed), "amount_out", last.amountOut.String())
	return last.amountOut, nil
}

// swapOnPool moves amountIn of tokenIn from the sender's deposits into the
// pool and credits the output back.
func (k Keeper) swapOnPool(
	ctx sdk.Context,
	sender string,
	poolID uint64,
	tokenIn string,
	amountIn math.Uint,
	tokenOut string,
	minAmountOut math.Uint,
	fees types.FeePolicy,
) (executedSwap, error) {
	if err := k.depositKeeper.Withdraw(ctx, sender, tokenIn, amountIn); err != nil {
		return executedSwap{}, err
	}

	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return executedSwap{}, err
	}
	amountOut, err := pool.Swap(tokenIn, amountIn, tokenOut, minAmountOut, fees)
	if err != nil {
		if types.ErrInvariantViolation.Is(err) {
			k.Logger(ctx).Error("swap rejected, pool invariant would decrease",
				"pool_id", poolID, "token_in", tokenIn, "amount_in", amountIn.String(), "error", err)
		}
		return executedSwap{}, err
	}
	if err := k.SetPool(ctx, poolID, pool); err != nil {
		return executedSwap{}, err
	}

	if !amountOut.IsZero() {
		if err := k.depositKeeper.Deposit(ctx, sender, tokenOut, amountOut); err != nil {
			return executedSwap{}, err
		}
	}

	if k.hooks != nil {
		if err := k.hooks.AfterSwap(ctx, poolID, sender, tokenIn, tokenOut, amountIn, amountOut); err != nil {
			return executedSwap{}, err
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyAccount, sender),
			sdk.NewAttribute(types.AttributeKeyTokenIn, tokenIn),
			sdk.NewAttribute(types.AttributeKeyAmountIn, amountIn.String()),
			sdk.NewAttribute(types.AttributeKeyTokenOut, tokenOut),
			sdk.NewAttribute(types.AttributeKeyAmountOut, amountOut.String()),
			sdk.NewAttribute(types.AttributeKeyReferral, fees.ReferralRecipient),
		),
	)

	return executedSwap{
		poolID:    poolID,
		tokenIn:   tokenIn,
		tokenOut:  tokenOut,
		amountIn:  amountIn,
		amountOut: amountOut,
		pool:      pool,
	}, nil
}
