package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// GetPoolInfo returns the summary of one pool.
func (k Keeper) GetPoolInfo(ctx sdk.Context, poolID uint64) (types.PoolInfo, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.PoolInfo{}, err
	}
	return pool.Info(), nil
}

// GetPools returns up to limit pool summaries starting at id from.
func (k Keeper) GetPools(ctx sdk.Context, from, limit uint64) ([]types.PoolInfo, error) {
	count := k.GetPoolCount(ctx)
	if from >= count {
		return []types.PoolInfo{}, nil
	}
	end := count
	if limit > 0 && from+limit < count {
		end = from + limit
	}

	infos := make([]types.PoolInfo, 0, end-from)
	for id := from; id < end; id++ {
		info, err := k.GetPoolInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetReturn quotes a swap on poolID without changing state.
func (k Keeper) GetReturn(ctx sdk.Context, poolID uint64, tokenIn string, amountIn math.Uint, tokenOut string) (math.Uint, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.ZeroUint(), err
	}
	return pool.GetReturn(tokenIn, amountIn, tokenOut)
}

// PredictRemoveLiquidity returns what removing shares from poolID would pay out.
func (k Keeper) PredictRemoveLiquidity(ctx sdk.Context, poolID uint64, shares math.Uint) ([]math.Uint, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return pool.PredictRemoveLiquidity(shares)
}

// GetShareBalance returns the shares account holds in poolID.
func (k Keeper) GetShareBalance(ctx sdk.Context, poolID uint64, account string) (math.Uint, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.ZeroUint(), err
	}
	return pool.ShareBalanceOf(account), nil
}

// GetShareTotalSupply returns the total shares of poolID.
func (k Keeper) GetShareTotalSupply(ctx sdk.Context, poolID uint64) (math.Uint, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.ZeroUint(), err
	}
	return pool.ShareTotalBalance(), nil
}

// IsLP reports whether account has a share entry in poolID.
func (k Keeper) IsLP(ctx sdk.Context, poolID uint64, account string) (bool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return false, err
	}
	return pool.ShareIsRegistered(account), nil
}

// GetVolumes returns the swap volumes of poolID.
func (k Keeper) GetVolumes(ctx sdk.Context, poolID uint64) ([]types.SwapVolume, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return pool.GetVolumes(), nil
}
