package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// InitGenesis initializes the exchange module's state from a genesis state
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return types.ErrInvalidGenesis.Wrap(err.Error())
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}

	for poolID, pool := range genState.Pools {
		id := uint64(poolID)
		if err := k.SetPool(ctx, id, pool); err != nil {
			return fmt.Errorf("failed to set pool %d: %w", id, err)
		}
		tokens := pool.Tokens()
		k.getStore(ctx).Set(types.GetPoolByTokensKey(tokens[0], tokens[1]), sdk.Uint64ToBigEndian(id))
		k.recordPoolState(id, pool)
	}
	k.setPoolCount(ctx, uint64(len(genState.Pools)))

	if k.metrics != nil {
		k.metrics.PoolsTotal.Set(float64(len(genState.Pools)))
	}
	k.Logger(ctx).Info("exchange module genesis initialized", "pools", len(genState.Pools))
	return nil
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	if pools == nil {
		pools = []*types.Pool{}
	}
	return &types.GenesisState{
		Params: k.GetParams(ctx),
		Pools:  pools,
	}, nil
}
