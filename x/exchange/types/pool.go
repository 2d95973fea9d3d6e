package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
)

// PoolKind names a pool curve.
type PoolKind string

const (
	PoolKindSimple PoolKind = "SIMPLE_POOL"
)

// CurvePool is the set of operations every pool curve provides.
type CurvePool interface {
	Tokens() []string
	Reserves() []math.Uint
	AddLiquidity(sender string, amounts []math.Uint) (math.Uint, error)
	RemoveLiquidity(sender string, shares math.Uint, minAmounts []math.Uint) ([]math.Uint, error)
	PredictRemoveLiquidity(shares math.Uint) ([]math.Uint, error)
	GetReturn(tokenIn string, amountIn math.Uint, tokenOut string) (math.Uint, error)
	Swap(tokenIn string, amountIn math.Uint, tokenOut string, minAmountOut math.Uint, fees FeePolicy) (math.Uint, error)
	GetFee() uint32
	GetVolumes() []SwapVolume
	ShareDecimals() uint8
	ShareTotalBalance() math.Uint
	ShareBalanceOf(account string) math.Uint
	ShareIsRegistered(account string) bool
	ShareRegister(account string) error
	ShareUnregister(account string) error
	Validate() error
}

var _ CurvePool = (*SimplePool)(nil)

// Pool is a tagged union over the supported curves. It forwards every call to
// the concrete curve selected by its kind.
type Pool struct {
	kind   PoolKind
	simple *SimplePool
}

// NewSimplePoolVariant wraps a constant product pool.
func NewSimplePoolVariant(p *SimplePool) *Pool {
	return &Pool{kind: PoolKindSimple, simple: p}
}

func (p *Pool) Kind() PoolKind { return p.kind }

// SimplePool returns the constant product curve, if that is the pool's kind.
func (p *Pool) SimplePool() (*SimplePool, bool) {
	return p.simple, p.kind == PoolKindSimple && p.simple != nil
}

func (p *Pool) curve() CurvePool {
	switch p.kind {
	case PoolKindSimple:
		return p.simple
	default:
		panic(fmt.Sprintf("unknown pool kind %q", p.kind))
	}
}

func (p *Pool) Tokens() []string { return p.curve().Tokens() }

func (p *Pool) Reserves() []math.Uint { return p.curve().Reserves() }

func (p *Pool) AddLiquidity(sender string, amounts []math.Uint) (math.Uint, error) {
	return p.curve().AddLiquidity(sender, amounts)
}

func (p *Pool) RemoveLiquidity(sender string, shares math.Uint, minAmounts []math.Uint) ([]math.Uint, error) {
	return p.curve().RemoveLiquidity(sender, shares, minAmounts)
}

func (p *Pool) PredictRemoveLiquidity(shares math.Uint) ([]math.Uint, error) {
	return p.curve().PredictRemoveLiquidity(shares)
}

func (p *Pool) GetReturn(tokenIn string, amountIn math.Uint, tokenOut string) (math.Uint, error) {
	return p.curve().GetReturn(tokenIn, amountIn, tokenOut)
}

func (p *Pool) Swap(tokenIn string, amountIn math.Uint, tokenOut string, minAmountOut math.Uint, fees FeePolicy) (math.Uint, error) {
	return p.curve().Swap(tokenIn, amountIn, tokenOut, minAmountOut, fees)
}

func (p *Pool) GetFee() uint32 { return p.curve().GetFee() }

func (p *Pool) GetVolumes() []SwapVolume { return p.curve().GetVolumes() }

func (p *Pool) ShareDecimals() uint8 { return p.curve().ShareDecimals() }

func (p *Pool) ShareTotalBalance() math.Uint { return p.curve().ShareTotalBalance() }

func (p *Pool) ShareBalanceOf(account string) math.Uint { return p.curve().ShareBalanceOf(account) }

func (p *Pool) ShareIsRegistered(account string) bool { return p.curve().ShareIsRegistered(account) }

func (p *Pool) ShareRegister(account string) error { return p.curve().ShareRegister(account) }

func (p *Pool) ShareUnregister(account string) error { return p.curve().ShareUnregister(account) }

func (p *Pool) Validate() error { return p.curve().Validate() }

// MatchesTokens reports whether the pool trades exactly the given pair, in
// either order.
func (p *Pool) MatchesTokens(tokenA, tokenB string) bool {
	tokens := p.Tokens()
	return (tokens[0] == tokenA && tokens[1] == tokenB) ||
		(tokens[0] == tokenB && tokens[1] == tokenA)
}

// Info summarizes the pool for queries.
func (p *Pool) Info() PoolInfo {
	return PoolInfo{
		Kind:              p.kind,
		TokenAccountIDs:   p.Tokens(),
		Amounts:           p.Reserves(),
		TotalFee:          p.GetFee(),
		SharesTotalSupply: p.ShareTotalBalance(),
	}
}

// PoolInfo is the read-only view of a pool.
type PoolInfo struct {
	Kind              PoolKind    `json:"pool_kind"`
	TokenAccountIDs   []string    `json:"token_account_ids"`
	Amounts           []math.Uint `json:"amounts"`
	TotalFee          uint32      `json:"total_fee"`
	SharesTotalSupply math.Uint   `json:"shares_total_supply"`
}

type poolJSON struct {
	Kind       PoolKind    `json:"kind"`
	SimplePool *SimplePool `json:"simple_pool,omitempty"`
}

func (p *Pool) MarshalJSON() ([]byte, error) {
	out := poolJSON{Kind: p.kind}
	switch p.kind {
	case PoolKindSimple:
		out.SimplePool = p.simple
	default:
		return nil, ErrUnknownPoolKind.Wrap(string(p.kind))
	}
	return json.Marshal(out)
}

func (p *Pool) UnmarshalJSON(bz []byte) error {
	var in poolJSON
	if err := json.Unmarshal(bz, &in); err != nil {
		return err
	}
	switch in.Kind {
	case PoolKindSimple:
		if in.SimplePool == nil {
			return ErrInvalidGenesis.Wrap("simple pool body missing")
		}
		if err := in.SimplePool.Validate(); err != nil {
			return err
		}
		*p = Pool{kind: PoolKindSimple, simple: in.SimplePool}
		return nil
	default:
		return ErrUnknownPoolKind.Wrap(string(in.Kind))
	}
}

// Clone returns a deep copy of the pool.
func (p *Pool) Clone() *Pool {
	c := &Pool{kind: p.kind}
	if p.simple != nil {
		c.simple = p.simple.Clone()
	}
	return c
}
