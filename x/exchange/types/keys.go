package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "exchange"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PoolKey         = []byte{0x01} // prefix for pool store
	PoolCountKey    = []byte{0x02} // key for the next pool id
	PoolByTokensKey = []byte{0x03} // prefix for pool lookup by token pair
	ParamsKey       = []byte{0x04} // key for module params
)

// GetPoolKey returns the store key for a pool
func GetPoolKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolKey...), sdk.Uint64ToBigEndian(poolID)...)
}

// GetPoolByTokensKey returns the index key for an unordered token pair. The
// pair is sorted so both orders resolve to the same key.
func GetPoolByTokensKey(tokenA, tokenB string) []byte {
	if tokenA > tokenB {
		tokenA, tokenB = tokenB, tokenA
	}
	key := append([]byte{}, PoolByTokensKey...)
	key = append(key, []byte(tokenA)...)
	key = append(key, 0x00)
	return append(key, []byte(tokenB)...)
}
