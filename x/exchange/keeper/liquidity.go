package keeper

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// AddLiquidity adds liquidity from the sender's deposits. Only the amounts the
// pool actually consumes are withdrawn; the rest stays deposited. When
// minAmounts is non-nil every consumed amount must reach its minimum, which
// guards against the ratio moving between quote and execution.
func (k Keeper) AddLiquidity(ctx sdk.Context, sender string, poolID uint64, amounts, minAmounts []math.Uint) (math.Uint, []math.Uint, error) {
	var (
		shares  math.Uint
		used    []math.Uint
		tokens  []string
		updated *types.Pool
	)
	err := runAtomic(ctx, func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}

		used = append([]math.Uint(nil), amounts...)
		shares, err = pool.AddLiquidity(sender, used)
		if err != nil {
			return err
		}

		if minAmounts != nil {
			if len(minAmounts) != len(used) {
				return types.ErrWrongTokenCount.Wrapf("got %d min amounts, want %d", len(minAmounts), len(used))
			}
			for i := range used {
				if minAmounts[i].IsNil() {
					continue
				}
				if used[i].LT(minAmounts[i]) {
					return types.ErrMinAmount.Wrapf("deposit of %s: %s below min %s", pool.Tokens()[i], used[i], minAmounts[i])
				}
			}
		}

		tokens = pool.Tokens()
		for i, token := range tokens {
			if err := k.depositKeeper.Withdraw(ctx, sender, token, used[i]); err != nil {
				return err
			}
		}
		if err := k.SetPool(ctx, poolID, pool); err != nil {
			return err
		}

		if k.hooks != nil {
			if err := k.hooks.AfterLiquidityChanged(ctx, poolID, sender, used, shares, true); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeAddLiquidity,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyAccount, sender),
				sdk.NewAttribute(types.AttributeKeyAmounts, joinUints(used)),
				sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			),
		)
		updated = pool
		return nil
	})
	if err != nil {
		return math.ZeroUint(), nil, err
	}

	k.recordPoolState(poolID, updated)

	if k.metrics != nil {
		poolIDStr := fmt.Sprintf("%d", poolID)
		for i, token := range tokens {
			k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, token).Add(toFloat(used[i]))
		}
	}
	k.Logger(ctx).Info("liquidity added", "pool_id", poolID, "account", sender, "amounts", joinUints(used), "shares", shares.String())
	return shares, used, nil
}

// RemoveLiquidity burns shares of the sender and credits the withdrawn pool
// assets to its deposits.
func (k Keeper) RemoveLiquidity(ctx sdk.Context, sender string, poolID uint64, shares math.Uint, minAmounts []math.Uint) ([]math.Uint, error) {
	var (
		amounts []math.Uint
		tokens  []string
		updated *types.Pool
	)
	err := runAtomic(ctx, func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}

		amounts, err = pool.RemoveLiquidity(sender, shares, minAmounts)
		if err != nil {
			return err
		}
		if err := k.SetPool(ctx, poolID, pool); err != nil {
			return err
		}

		tokens = pool.Tokens()
		for i, token := range tokens {
			if amounts[i].IsZero() {
				continue
			}
			if err := k.depositKeeper.Deposit(ctx, sender, token, amounts[i]); err != nil {
				return err
			}
		}

		if k.hooks != nil {
			if err := k.hooks.AfterLiquidityChanged(ctx, poolID, sender, amounts, shares, false); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRemoveLiquidity,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyAccount, sender),
				sdk.NewAttribute(types.AttributeKeyAmounts, joinUints(amounts)),
				sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			),
		)
		updated = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	k.recordPoolState(poolID, updated)

	if k.metrics != nil {
		poolIDStr := fmt.Sprintf("%d", poolID)
		for i, token := range tokens {
			k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, token).Add(toFloat(amounts[i]))
		}
	}
	k.Logger(ctx).Info("liquidity removed", "pool_id", poolID, "account", sender, "amounts", joinUints(amounts), "shares", shares.String())
	return amounts, nil
}

// RegisterShares creates an empty share entry for account in the pool, which
// makes it eligible for referral fee shares.
func (k Keeper) RegisterShares(ctx sdk.Context, poolID uint64, account string) error {
	return runAtomic(ctx, func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		if err := pool.ShareRegister(account); err != nil {
			return err
		}
		if err := k.SetPool(ctx, poolID, pool); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRegisterShares,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyAccount, account),
			),
		)
		return nil
	})
}

// UnregisterShares drops the share entry of account. The balance must be zero.
func (k Keeper) UnregisterShares(ctx sdk.Context, poolID uint64, account string) error {
	return runAtomic(ctx, func(ctx sdk.Context) error {
		pool, err := k.GetPool(ctx, poolID)
		if err != nil {
			return err
		}
		if err := pool.ShareUnregister(account); err != nil {
			return err
		}
		if err := k.SetPool(ctx, poolID, pool); err != nil {
			return err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeUnregister,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyAccount, account),
			),
		)
		return nil
	})
}

func joinUints(values []math.Uint) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}
