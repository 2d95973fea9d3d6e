// Package app wires the exchange and escrow modules onto one committed
// multistore.
//
// The App owns the database, mounts one IAVL store per module and hands out
// execution contexts. Every state change made through a context becomes
// durable only after Commit.
package app

import (
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	escrowkeeper "github.com/forbitswap/exchange/x/escrow/keeper"
	escrowtypes "github.com/forbitswap/exchange/x/escrow/types"
	exchangekeeper "github.com/forbitswap/exchange/x/exchange/keeper"
	exchangetypes "github.com/forbitswap/exchange/x/exchange/types"
)

// App is the exchange application.
type App struct {
	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore
	keys   map[string]*storetypes.KVStoreKey

	EscrowKeeper   *escrowkeeper.Keeper
	ExchangeKeeper *exchangekeeper.Keeper
}

// New mounts the module stores on db and loads the latest committed version.
func New(logger log.Logger, db dbm.DB) (*App, error) {
	keys := storetypes.NewKVStoreKeys(escrowtypes.StoreKey, exchangetypes.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, err
	}

	escrowKeeper := escrowkeeper.NewKeeper(keys[escrowtypes.StoreKey])
	exchangeKeeper := exchangekeeper.NewKeeper(keys[exchangetypes.StoreKey], escrowKeeper)

	return &App{
		logger:         logger,
		db:             db,
		cms:            cms,
		keys:           keys,
		EscrowKeeper:   escrowKeeper,
		ExchangeKeeper: exchangeKeeper,
	}, nil
}

// NewContext returns a context over the working state.
func (app *App) NewContext() sdk.Context {
	return sdk.NewContext(app.cms, cmtproto.Header{Height: app.LastVersion() + 1}, false, app.logger)
}

// Commit persists the working state and returns the new version.
func (app *App) Commit() int64 {
	return app.cms.Commit().Version
}

// LastVersion returns the last committed version.
func (app *App) LastVersion() int64 {
	return app.cms.LastCommitID().Version
}

// Close releases the database.
func (app *App) Close() error {
	return app.db.Close()
}
