package keeper

import (
	"encoding/json"
	"fmt"
	"strings"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// GetPoolCount returns the number of pools, which is also the next pool id.
func (k Keeper) GetPoolCount(ctx sdk.Context) uint64 {
	return sdk.BigEndianToUint64(k.getStore(ctx).Get(types.PoolCountKey))
}

func (k Keeper) setPoolCount(ctx sdk.Context, count uint64) {
	k.getStore(ctx).Set(types.PoolCountKey, sdk.Uint64ToBigEndian(count))
}

// GetPool loads the pool stored under poolID.
func (k Keeper) GetPool(ctx sdk.Context, poolID uint64) (*types.Pool, error) {
	bz := k.getStore(ctx).Get(types.GetPoolKey(poolID))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d", poolID)
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil, fmt.Errorf("failed to decode pool %d: %w", poolID, err)
	}
	return &pool, nil
}

// SetPool stores pool under poolID.
func (k Keeper) SetPool(ctx sdk.Context, poolID uint64, pool *types.Pool) error {
	bz, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("failed to encode pool %d: %w", poolID, err)
	}
	k.getStore(ctx).Set(types.GetPoolKey(poolID), bz)
	return nil
}

// GetPoolIDByTokens looks up the pool trading the unordered pair.
func (k Keeper) GetPoolIDByTokens(ctx sdk.Context, tokenA, tokenB string) (uint64, bool) {
	bz := k.getStore(ctx).Get(types.GetPoolByTokensKey(tokenA, tokenB))
	if bz == nil {
		return 0, false
	}
	return sdk.BigEndianToUint64(bz), true
}

// IteratePools calls cb for every pool in id order until cb returns true.
func (k Keeper) IteratePools(ctx sdk.Context, cb func(poolID uint64, pool *types.Pool) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		poolID := sdk.BigEndianToUint64(iterator.Key()[len(types.PoolKey):])
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return fmt.Errorf("failed to decode pool %d: %w", poolID, err)
		}
		if cb(poolID, &pool) {
			break
		}
	}
	return nil
}

// GetAllPools returns every pool in id order.
func (k Keeper) GetAllPools(ctx sdk.Context) ([]*types.Pool, error) {
	var pools []*types.Pool
	err := k.IteratePools(ctx, func(_ uint64, pool *types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// CreatePool adds a constant product pool for two distinct tokens and returns
// its id. The exchange account and the creator are registered as share
// holders so fee shares can be credited to them from the first swap.
func (k Keeper) CreatePool(ctx sdk.Context, creator string, tokens []string, fee uint32) (uint64, error) {
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return 0, types.ErrInvalidAccount.Wrap("creator cannot be empty")
	}

	simple, err := types.NewSimplePool(tokens, fee)
	if err != nil {
		return 0, err
	}
	if existing, found := k.GetPoolIDByTokens(ctx, tokens[0], tokens[1]); found {
		return 0, types.ErrPoolAlreadyExists.Wrapf("pool %d already trades %s/%s", existing, tokens[0], tokens[1])
	}

	pool := types.NewSimplePoolVariant(simple)
	params := k.GetParams(ctx)
	if err := pool.ShareRegister(params.ExchangeAccount); err != nil {
		return 0, err
	}
	if creator != params.ExchangeAccount {
		if err := pool.ShareRegister(creator); err != nil {
			return 0, err
		}
	}

	var poolID uint64
	err = runAtomic(ctx, func(ctx sdk.Context) error {
		poolID = k.GetPoolCount(ctx)
		if err := k.SetPool(ctx, poolID, pool); err != nil {
			return err
		}
		k.getStore(ctx).Set(types.GetPoolByTokensKey(tokens[0], tokens[1]), sdk.Uint64ToBigEndian(poolID))
		k.setPoolCount(ctx, poolID+1)

		if k.hooks != nil {
			if err := k.hooks.AfterPoolCreated(ctx, poolID, pool.Tokens(), creator); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeCreatePool,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyAccount, creator),
				sdk.NewAttribute(types.AttributeKeyTokens, strings.Join(pool.Tokens(), ",")),
				sdk.NewAttribute(types.AttributeKeyFee, fmt.Sprintf("%d", fee)),
			),
		)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if k.metrics != nil {
		k.metrics.PoolsTotal.Set(float64(poolID + 1))
		k.metrics.PoolCreations.Inc()
	}
	k.Logger(ctx).Info("pool created", "pool_id", poolID, "tokens", pool.Tokens(), "fee", fee, "creator", creator)
	return poolID, nil
}
