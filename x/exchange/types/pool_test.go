package types_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/forbitswap/exchange/x/exchange/types"
)

func TestPoolForwardsToSimplePool(t *testing.T) {
	simple := newPool(t, 25)
	pool := types.NewSimplePoolVariant(simple)
	require.Equal(t, types.PoolKindSimple, pool.Kind())

	shares, err := pool.AddLiquidity("alice", uints(2000, 3000))
	require.NoError(t, err)
	require.True(t, shares.Equal(simple.ShareBalanceOf("alice")))
	requireUints(t, pool.Reserves(), 2000, 3000)

	quote, err := pool.GetReturn("tokenB", u(300), "tokenA")
	require.NoError(t, err)
	out, err := pool.Swap("tokenB", u(300), "tokenA", quote, types.FeePolicy{})
	require.NoError(t, err)
	require.True(t, out.Equal(quote))
	require.Equal(t, uint32(25), pool.GetFee())
	require.Equal(t, uint64(300), pool.GetVolumes()[1].Input.Uint64())

	require.True(t, pool.MatchesTokens("tokenB", "tokenA"))
	require.False(t, pool.MatchesTokens("tokenA", "tokenC"))

	info := pool.Info()
	require.Equal(t, types.PoolKindSimple, info.Kind)
	require.Equal(t, []string{"tokenA", "tokenB"}, info.TokenAccountIDs)
	require.True(t, info.SharesTotalSupply.Equal(types.InitSharesSupply()))
}

func TestPoolJSON(t *testing.T) {
	pool := types.NewSimplePoolVariant(newPool(t, 30))
	_, err := pool.AddLiquidity("alice", uints(1000, 1000))
	require.NoError(t, err)
	_, err = pool.Swap("tokenA", u(100), "tokenB", math.ZeroUint(), types.FeePolicy{})
	require.NoError(t, err)

	bz, err := json.Marshal(pool)
	require.NoError(t, err)

	var decoded types.Pool
	require.NoError(t, json.Unmarshal(bz, &decoded))
	require.Equal(t, types.PoolKindSimple, decoded.Kind())
	requireUintsEqual(t, pool.Reserves(), decoded.Reserves())
	require.True(t, decoded.ShareBalanceOf("alice").Equal(pool.ShareBalanceOf("alice")))
	require.True(t, decoded.GetVolumes()[0].Input.Equal(u(100)))

	err = json.Unmarshal([]byte(`{"kind":"STABLE_SWAP"}`), &decoded)
	require.ErrorIs(t, err, types.ErrUnknownPoolKind)

	err = json.Unmarshal([]byte(`{"kind":"SIMPLE_POOL"}`), &decoded)
	require.ErrorIs(t, err, types.ErrInvalidGenesis)
}

func TestPoolClone(t *testing.T) {
	pool := types.NewSimplePoolVariant(newPool(t, 30))
	_, err := pool.AddLiquidity("alice", uints(1000, 1000))
	require.NoError(t, err)

	clone := pool.Clone()
	_, err = clone.AddLiquidity("bob", uints(1000, 1000))
	require.NoError(t, err)

	require.False(t, pool.ShareIsRegistered("bob"))
	requireUints(t, pool.Reserves(), 1000, 1000)
	requireUints(t, clone.Reserves(), 2000, 2000)
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, types.DefaultGenesis().Validate())

	gs := types.DefaultGenesis()
	gs.Pools = []*types.Pool{
		types.NewSimplePoolVariant(newPool(t, 30)),
	}
	require.NoError(t, gs.Validate())

	reversed, err := types.NewSimplePool([]string{"tokenB", "tokenA"}, 10)
	require.NoError(t, err)
	gs.Pools = append(gs.Pools, types.NewSimplePoolVariant(reversed))
	require.Error(t, gs.Validate())

	gs = types.DefaultGenesis()
	gs.Params.ExchangeAccount = ""
	require.ErrorIs(t, gs.Validate(), types.ErrInvalidParams)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	p := types.DefaultParams()
	p.ExchangeFee = types.FeeDivisor + 1
	require.ErrorIs(t, p.Validate(), types.ErrInvalidParams)

	p = types.DefaultParams()
	p.ExchangeFee = 6000
	p.ReferralFee = 5000
	require.ErrorIs(t, p.Validate(), types.ErrInvalidParams)
}

func TestNewFeePolicy(t *testing.T) {
	params := types.DefaultParams()
	params.ReferralFee = 5

	fees := types.NewFeePolicy(params, "  ")
	require.False(t, fees.HasReferral())
	require.Equal(t, types.DefaultExchangeAccount, fees.ProtocolRecipient)

	fees = types.NewFeePolicy(params, "ref")
	require.True(t, fees.HasReferral())
	require.Equal(t, uint32(5), fees.ReferralFee)
	require.NoError(t, fees.Validate())
}
