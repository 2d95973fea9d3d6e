package types

import (
	"fmt"
)

// GenesisState is the full exported state of the exchange module. Pools form a
// dense arena: the pool at index i has id i.
type GenesisState struct {
	Params Params  `json:"params"`
	Pools  []*Pool `json:"pools"`
}

// DefaultGenesis returns the default genesis state for the exchange module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params: DefaultParams(),
		Pools:  []*Pool{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	pairs := make(map[string]int, len(gs.Pools))
	for i, pool := range gs.Pools {
		if pool == nil {
			return fmt.Errorf("pool %d is nil", i)
		}
		if err := pool.Validate(); err != nil {
			return fmt.Errorf("pool %d: %w", i, err)
		}
		tokens := pool.Tokens()
		key := string(GetPoolByTokensKey(tokens[0], tokens[1]))
		if prev, ok := pairs[key]; ok {
			return fmt.Errorf("pools %d and %d trade the same pair %s/%s", prev, i, tokens[0], tokens[1])
		}
		pairs[key] = i
	}
	return nil
}
