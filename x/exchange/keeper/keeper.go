package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// Keeper of the exchange store
type Keeper struct {
	storeKey      storetypes.StoreKey
	depositKeeper types.DepositKeeper
	hooks         types.ExchangeHooks
	metrics       *ExchangeMetrics
}

// NewKeeper creates a new exchange Keeper instance
func NewKeeper(key storetypes.StoreKey, depositKeeper types.DepositKeeper) *Keeper {
	return &Keeper{
		storeKey:      key,
		depositKeeper: depositKeeper,
		metrics:       NewExchangeMetrics(),
	}
}

// SetHooks sets the exchange hooks. It may only be called once.
func (k *Keeper) SetHooks(hooks ...types.ExchangeHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set exchange hooks twice")
	}
	k.hooks = types.NewMultiExchangeHooks(hooks...)
	return k
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the exchange module
func (k Keeper) getStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// runAtomic executes fn on a branch of ctx and writes the branch back only
// when fn succeeds.
func runAtomic(ctx sdk.Context, fn func(sdk.Context) error) error {
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}
