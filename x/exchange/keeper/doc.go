// Package keeper implements the exchange module keeper.
//
// The keeper owns the pool arena: every pool is stored under its numeric id,
// ids are handed out densely starting at zero, and a token-pair index rejects
// a second pool for the same pair. Each operation loads one pool, runs the
// pricing curve on it and writes it back.
//
// # Atomicity
//
// Every state changing entry point runs on a branch of the caller's context
// (sdk.Context.CacheContext). Pool updates, deposit movements, hooks and
// events only reach the parent store when the whole operation succeeds.
//
// # Usage Patterns
//
// Creating a pool:
//
//	poolID, err := keeper.CreatePool(ctx, creator, []string{"usdc", "wnear"}, 25)
//
// Adding liquidity from deposited funds:
//
//	shares, used, err := keeper.AddLiquidity(ctx, sender, poolID, amounts, minAmounts)
//
// Executing a two hop swap; the second action takes the first one's output:
//
//	out, err := keeper.Swap(ctx, sender, []types.SwapAction{
//		{PoolID: 0, TokenIn: "usdc", AmountIn: &amount, TokenOut: "wnear"},
//		{PoolID: 1, TokenIn: "wnear", TokenOut: "dai", MinAmountOut: minOut},
//	}, referral)
//
// # Metrics
//
// The keeper exposes Prometheus metrics for swaps, pools and liquidity
// changes via ExchangeMetrics.
package keeper
