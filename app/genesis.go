package app

import (
	"encoding/json"
	"fmt"

	escrowtypes "github.com/forbitswap/exchange/x/escrow/types"
	exchangetypes "github.com/forbitswap/exchange/x/exchange/types"
)

// GenesisState represents the genesis state of the application, keyed by
// module name.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns the default genesis of every module.
func NewDefaultGenesisState() GenesisState {
	return GenesisState{
		escrowtypes.ModuleName:   mustMarshalJSON(escrowtypes.DefaultGenesis()),
		exchangetypes.ModuleName: mustMarshalJSON(exchangetypes.DefaultGenesis()),
	}
}

// InitChain loads genesis into the working state and commits it.
func (app *App) InitChain(genesis GenesisState) error {
	ctx := app.NewContext()

	escrowGenesis := escrowtypes.DefaultGenesis()
	if bz, ok := genesis[escrowtypes.ModuleName]; ok {
		if err := json.Unmarshal(bz, escrowGenesis); err != nil {
			return fmt.Errorf("failed to decode %s genesis: %w", escrowtypes.ModuleName, err)
		}
	}
	if err := app.EscrowKeeper.InitGenesis(ctx, *escrowGenesis); err != nil {
		return fmt.Errorf("failed to init %s genesis: %w", escrowtypes.ModuleName, err)
	}

	exchangeGenesis := exchangetypes.DefaultGenesis()
	if bz, ok := genesis[exchangetypes.ModuleName]; ok {
		if err := json.Unmarshal(bz, exchangeGenesis); err != nil {
			return fmt.Errorf("failed to decode %s genesis: %w", exchangetypes.ModuleName, err)
		}
	}
	if err := app.ExchangeKeeper.InitGenesis(ctx, *exchangeGenesis); err != nil {
		return fmt.Errorf("failed to init %s genesis: %w", exchangetypes.ModuleName, err)
	}

	app.Commit()
	return nil
}

// ExportGenesis exports the working state of every module.
func (app *App) ExportGenesis() (GenesisState, error) {
	ctx := app.NewContext()

	escrowGenesis, err := app.EscrowKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	exchangeGenesis, err := app.ExchangeKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	return GenesisState{
		escrowtypes.ModuleName:   mustMarshalJSON(escrowGenesis),
		exchangetypes.ModuleName: mustMarshalJSON(exchangeGenesis),
	}, nil
}

func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
