package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	escrowkeeper "github.com/forbitswap/exchange/x/escrow/keeper"
	escrowtypes "github.com/forbitswap/exchange/x/escrow/types"
	"github.com/forbitswap/exchange/x/exchange/keeper"
	"github.com/forbitswap/exchange/x/exchange/types"
)

// ExchangeKeeper creates an exchange keeper backed by an in-memory store, with
// a real escrow keeper holding deposits.
func ExchangeKeeper(t testing.TB) (*keeper.Keeper, *escrowkeeper.Keeper, sdk.Context) {
	exchangeKey := storetypes.NewKVStoreKey(types.StoreKey)
	escrowKey := storetypes.NewKVStoreKey(escrowtypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(exchangeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(escrowKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	escrow := escrowkeeper.NewKeeper(escrowKey)
	k := keeper.NewKeeper(exchangeKey, escrow)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return k, escrow, ctx
}

// FundAccount deposits amount of every token to account.
func FundAccount(t testing.TB, escrow *escrowkeeper.Keeper, ctx sdk.Context, account string, amount uint64, tokens ...string) {
	t.Helper()
	for _, token := range tokens {
		require.NoError(t, escrow.Deposit(ctx, account, token, math.NewUint(amount)))
	}
}

// CreateTestPool creates a pool for tokenA/tokenB and seeds it with the given
// liquidity from a funded provider account.
func CreateTestPool(t testing.TB, k *keeper.Keeper, escrow *escrowkeeper.Keeper, ctx sdk.Context, tokenA, tokenB string, amountA, amountB uint64) uint64 {
	t.Helper()
	const provider = "pool-seeder"

	poolID, err := k.CreatePool(ctx, provider, []string{tokenA, tokenB}, 30)
	require.NoError(t, err)

	require.NoError(t, escrow.Deposit(ctx, provider, tokenA, math.NewUint(amountA)))
	require.NoError(t, escrow.Deposit(ctx, provider, tokenB, math.NewUint(amountB)))
	_, _, err = k.AddLiquidity(ctx, provider, poolID, []math.Uint{math.NewUint(amountA), math.NewUint(amountB)}, nil)
	require.NoError(t, err)
	return poolID
}

// EscrowKeeper creates an escrow keeper backed by an in-memory store.
func EscrowKeeper(t testing.TB) (*escrowkeeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(escrowtypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	return escrowkeeper.NewKeeper(storeKey), sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
}
