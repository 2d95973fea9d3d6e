package keeper

import (
	"fmt"
	"math/big"
	"sync"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// ExchangeMetrics holds all Prometheus metrics for the exchange module
type ExchangeMetrics struct {
	// Swap metrics
	SwapsTotal *prometheus.CounterVec
	SwapVolume *prometheus.CounterVec

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	LPTokenSupply    *prometheus.GaugeVec

	// Pool metrics
	PoolsTotal    prometheus.Gauge
	PoolCreations prometheus.Counter

	// Safety
	InvariantViolations prometheus.Counter
}

var (
	exchangeMetricsOnce sync.Once
	exchangeMetrics     *ExchangeMetrics
)

// NewExchangeMetrics creates and registers exchange metrics (singleton pattern)
func NewExchangeMetrics() *ExchangeMetrics {
	exchangeMetricsOnce.Do(func() {
		exchangeMetrics = &ExchangeMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "swaps_total",
					Help:      "Total number of swap calls by outcome",
				},
				[]string{"status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool_id", "token_in"},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added in base units",
				},
				[]string{"pool_id", "token"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed in base units",
				},
				[]string{"pool_id", "token"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "pool_reserves",
					Help:      "Current pool reserves in base units",
				},
				[]string{"pool_id", "token"},
			),
			LPTokenSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "lp_token_supply",
					Help:      "Total pool shares in existence",
				},
				[]string{"pool_id"},
			),
			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "pools_total",
					Help:      "Number of pools",
				},
			),
			PoolCreations: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "pool_creations_total",
					Help:      "Number of pools created",
				},
			),
			InvariantViolations: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "forbitswap",
					Subsystem: types.ModuleName,
					Name:      "invariant_violations_total",
					Help:      "Swaps rejected because the pool invariant would decrease",
				},
			),
		}
	})
	return exchangeMetrics
}

// recordPoolState refreshes the reserve and supply gauges of a pool.
func (k Keeper) recordPoolState(poolID uint64, pool *types.Pool) {
	if k.metrics == nil || pool == nil {
		return
	}
	poolIDStr := fmt.Sprintf("%d", poolID)
	reserves := pool.Reserves()
	for i, token := range pool.Tokens() {
		k.metrics.PoolReserves.WithLabelValues(poolIDStr, token).Set(toFloat(reserves[i]))
	}
	k.metrics.LPTokenSupply.WithLabelValues(poolIDStr).Set(toFloat(pool.ShareTotalBalance()))
}

// RefreshMetrics sets the pool gauges from stored state, for processes that
// serve metrics without having executed the operations themselves.
func (k Keeper) RefreshMetrics(ctx sdk.Context) error {
	if k.metrics == nil {
		return nil
	}
	k.metrics.PoolsTotal.Set(float64(k.GetPoolCount(ctx)))
	return k.IteratePools(ctx, func(poolID uint64, pool *types.Pool) bool {
		k.recordPoolState(poolID, pool)
		return false
	})
}

// toFloat converts a 128-bit amount for use as a metric value.
func toFloat(u math.Uint) float64 {
	if u.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(u.BigIntMut()).Float64()
	return f
}
