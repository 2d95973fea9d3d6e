package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// InvariantRoute pairs an invariant with its route name.
type InvariantRoute struct {
	Route     string
	Invariant sdk.Invariant
}

// Invariants returns every exchange invariant with its route.
func Invariants(k Keeper) []InvariantRoute {
	return []InvariantRoute{
		{Route: "pool-shares", Invariant: PoolSharesInvariant(k)},
		{Route: "positive-reserves", Invariant: PositiveReservesInvariant(k)},
		{Route: "pool-index", Invariant: PoolIndexInvariant(k)},
	}
}

// AllInvariants runs all invariants of the exchange module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PoolSharesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PositiveReservesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PoolIndexInvariant(k)(ctx)
	}
}

// PoolSharesInvariant checks that every share ledger sums to its total supply
func PoolSharesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(poolID uint64, pool *types.Pool) bool {
			simple, ok := pool.SimplePool()
			if !ok {
				return false
			}
			sum := math.ZeroUint()
			for _, holder := range simple.Shares.Holders() {
				sum = sum.Add(simple.ShareBalanceOf(holder))
			}
			if !sum.Equal(pool.ShareTotalBalance()) {
				count++
				msg += fmt.Sprintf("pool %d: share balances sum to %s, total supply %s\n",
					poolID, sum, pool.ShareTotalBalance())
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("failed to load pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-shares",
			fmt.Sprintf("found %d pools with inconsistent share ledgers\n%s", count, msg),
		), broken
	}
}

// PositiveReservesInvariant checks that pools with outstanding shares hold
// both assets
func PositiveReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(poolID uint64, pool *types.Pool) bool {
			if pool.ShareTotalBalance().IsZero() {
				return false
			}
			reserves := pool.Reserves()
			for i, token := range pool.Tokens() {
				if reserves[i].IsZero() {
					count++
					msg += fmt.Sprintf("pool %d: zero reserve of %s with %s shares outstanding\n",
						poolID, token, pool.ShareTotalBalance())
				}
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("failed to load pools: %v\n", err)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "positive-reserves",
			fmt.Sprintf("found %d empty reserves\n%s", count, msg),
		), broken
	}
}

// PoolIndexInvariant checks that pool ids are dense and that each pool is
// reachable through the token pair index
func PoolIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
			seen  uint64
		)

		err := k.IteratePools(ctx, func(poolID uint64, pool *types.Pool) bool {
			if poolID != seen {
				count++
				msg += fmt.Sprintf("expected pool %d, found pool %d\n", seen, poolID)
			}
			seen++

			tokens := pool.Tokens()
			indexed, found := k.GetPoolIDByTokens(ctx, tokens[0], tokens[1])
			if !found || indexed != poolID {
				count++
				msg += fmt.Sprintf("pool %d: pair %s/%s not indexed to it\n", poolID, tokens[0], tokens[1])
			}
			return false
		})
		if err != nil {
			count++
			msg += fmt.Sprintf("failed to load pools: %v\n", err)
		}
		if total := k.GetPoolCount(ctx); total != seen {
			count++
			msg += fmt.Sprintf("pool count %d, stored pools %d\n", total, seen)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-index",
			fmt.Sprintf("found %d pool index inconsistencies\n%s", count, msg),
		), broken
	}
}
