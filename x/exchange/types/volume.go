package types

import (
	"cosmossdk.io/math"

	"github.com/forbitswap/exchange/pkg/bigmath"
)

// SwapVolume accumulates the traded amounts of one pool asset. Both counters
// only grow and stop at the 128-bit ceiling instead of wrapping.
type SwapVolume struct {
	Input  math.Uint `json:"input"`
	Output math.Uint `json:"output"`
}

func NewSwapVolume() SwapVolume {
	return SwapVolume{Input: math.ZeroUint(), Output: math.ZeroUint()}
}

// Record returns the volume after a swap of amountIn for amountOut.
func (v SwapVolume) Record(amountIn, amountOut math.Uint) SwapVolume {
	return SwapVolume{
		Input:  saturatingAdd(v.Input, amountIn),
		Output: saturatingAdd(v.Output, amountOut),
	}
}

func saturatingAdd(a, b math.Uint) math.Uint {
	max := bigmath.MaxU128()
	sum := a.Add(b)
	if sum.GT(max) {
		return max
	}
	return sum
}
