package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	keepertest "github.com/forbitswap/exchange/testutil/keeper"
	escrowkeeper "github.com/forbitswap/exchange/x/escrow/keeper"
	escrowtypes "github.com/forbitswap/exchange/x/escrow/types"
	"github.com/forbitswap/exchange/x/exchange/keeper"
	"github.com/forbitswap/exchange/x/exchange/types"
)

type KeeperTestSuite struct {
	suite.Suite
	keeper *keeper.Keeper
	escrow *escrowkeeper.Keeper
	ctx    sdk.Context
}

func (suite *KeeperTestSuite) SetupTest() {
	suite.keeper, suite.escrow, suite.ctx = keepertest.ExchangeKeeper(suite.T())
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (suite *KeeperTestSuite) balance(account, token string) math.Uint {
	return suite.escrow.GetBalance(suite.ctx, account, token)
}

func (suite *KeeperTestSuite) requireReserves(poolID uint64, want ...uint64) {
	info, err := suite.keeper.GetPoolInfo(suite.ctx, poolID)
	suite.Require().NoError(err)
	suite.Require().Len(info.Amounts, len(want))
	for i, w := range want {
		suite.Require().Equal(w, info.Amounts[i].Uint64(), "reserve %d", i)
	}
}

// TestCreatePool validates pool creation with valid and invalid parameters
func TestCreatePool(t *testing.T) {
	k, _, ctx := keepertest.ExchangeKeeper(t)

	_, err := k.CreatePool(ctx, "alice", []string{"usdc", "wnear"}, 25)
	require.NoError(t, err)

	tests := []struct {
		name    string
		creator string
		tokens  []string
		fee     uint32
		wantErr error
	}{
		{name: "valid pool creation", creator: "bob", tokens: []string{"usdc", "dai"}, fee: 30},
		{name: "same token pool", creator: "bob", tokens: []string{"dai", "dai"}, fee: 30, wantErr: types.ErrDuplicateTokens},
		{name: "existing pair reversed", creator: "bob", tokens: []string{"wnear", "usdc"}, fee: 30, wantErr: types.ErrPoolAlreadyExists},
		{name: "fee too large", creator: "bob", tokens: []string{"eth", "dai"}, fee: types.FeeDivisor, wantErr: types.ErrFeeTooLarge},
		{name: "three tokens", creator: "bob", tokens: []string{"eth", "dai", "usdc"}, fee: 30, wantErr: types.ErrWrongTokenCount},
		{name: "empty creator", creator: " ", tokens: []string{"eth", "dai"}, fee: 30, wantErr: types.ErrInvalidAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := k.GetPoolCount(ctx)
			poolID, err := k.CreatePool(ctx, tt.creator, tt.tokens, tt.fee)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, before, k.GetPoolCount(ctx))
				return
			}
			require.NoError(t, err)
			require.Equal(t, before, poolID)
			require.Equal(t, before+1, k.GetPoolCount(ctx))

			isLP, err := k.IsLP(ctx, poolID, tt.creator)
			require.NoError(t, err)
			require.True(t, isLP)
			isLP, err = k.IsLP(ctx, poolID, types.DefaultExchangeAccount)
			require.NoError(t, err)
			require.True(t, isLP)
		})
	}
}

func (suite *KeeperTestSuite) TestCreatePoolEvents() {
	poolID, err := suite.keeper.CreatePool(suite.ctx, "alice", []string{"usdc", "wnear"}, 25)
	suite.Require().NoError(err)

	events := suite.ctx.EventManager().Events()
	suite.Require().NotEmpty(events)
	last := events[len(events)-1]
	suite.Require().Equal(types.EventTypeCreatePool, last.Type)
	id, ok := last.GetAttribute(types.AttributeKeyPoolID)
	suite.Require().True(ok)
	suite.Require().Equal("0", id.Value)
	suite.Require().Equal(uint64(0), poolID)

	info, err := suite.keeper.GetPoolInfo(suite.ctx, poolID)
	suite.Require().NoError(err)
	suite.Require().Equal(types.PoolKindSimple, info.Kind)
	suite.Require().Equal([]string{"usdc", "wnear"}, info.TokenAccountIDs)
	suite.Require().Equal(uint32(25), info.TotalFee)
	suite.Require().True(info.SharesTotalSupply.IsZero())

	_, err = suite.keeper.GetPoolInfo(suite.ctx, 7)
	suite.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (suite *KeeperTestSuite) TestAddLiquidityWithdrawsConsumedAmounts() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 2000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 10_000, "usdc", "wnear")

	shares, used, err := suite.keeper.AddLiquidity(suite.ctx, "alice", poolID, []math.Uint{math.NewUint(500), math.NewUint(5000)}, nil)
	suite.Require().NoError(err)
	suite.Require().True(shares.Equal(types.InitSharesSupply().QuoUint64(2)))
	suite.Require().Equal(uint64(500), used[0].Uint64())
	suite.Require().Equal(uint64(1000), used[1].Uint64())

	// The unspent part of the requested amounts stays deposited.
	suite.Require().Equal(uint64(9500), suite.balance("alice", "usdc").Uint64())
	suite.Require().Equal(uint64(9000), suite.balance("alice", "wnear").Uint64())
	suite.requireReserves(poolID, 1500, 3000)

	balance, err := suite.keeper.GetShareBalance(suite.ctx, poolID, "alice")
	suite.Require().NoError(err)
	suite.Require().True(balance.Equal(shares))
}

func (suite *KeeperTestSuite) TestAddLiquidityMinAmounts() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 2000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 10_000, "usdc", "wnear")

	_, _, err := suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(5000)},
		[]math.Uint{math.NewUint(500), math.NewUint(1001)},
	)
	suite.Require().ErrorIs(err, types.ErrMinAmount)
	suite.Require().Equal(uint64(10_000), suite.balance("alice", "usdc").Uint64())
	suite.requireReserves(poolID, 1000, 2000)

	_, _, err = suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(5000)},
		[]math.Uint{math.NewUint(500)},
	)
	suite.Require().ErrorIs(err, types.ErrWrongTokenCount)

	_, _, err = suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(5000)},
		[]math.Uint{math.NewUint(500), math.NewUint(1000)},
	)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestAddLiquidityUnsetMinAmounts() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 2000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 10_000, "usdc", "wnear")

	shares, used, err := suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(5000)},
		make([]math.Uint, 2),
	)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(500), used[0].Uint64())
	suite.Require().Equal(uint64(1000), used[1].Uint64())
	suite.Require().True(shares.Equal(types.InitSharesSupply().QuoUint64(2)))
	suite.requireReserves(poolID, 1500, 3000)

	// Unset entries impose no floor while set ones still apply.
	_, _, err = suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(5000)},
		[]math.Uint{{}, math.NewUint(1001)},
	)
	suite.Require().ErrorIs(err, types.ErrMinAmount)
	suite.requireReserves(poolID, 1500, 3000)
}

func (suite *KeeperTestSuite) TestAddLiquidityInsufficientDepositRollsBack() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 500, "usdc")
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 100, "wnear")

	_, _, err := suite.keeper.AddLiquidity(suite.ctx, "alice", poolID, []math.Uint{math.NewUint(500), math.NewUint(500)}, nil)
	suite.Require().ErrorIs(err, escrowtypes.ErrInsufficientDeposit)

	suite.Require().Equal(uint64(500), suite.balance("alice", "usdc").Uint64())
	suite.requireReserves(poolID, 1000, 1000)
	isLP, err := suite.keeper.IsLP(suite.ctx, poolID, "alice")
	suite.Require().NoError(err)
	suite.Require().False(isLP)
}

func (suite *KeeperTestSuite) TestRemoveLiquidityCreditsDeposits() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 4000)

	predicted, err := suite.keeper.PredictRemoveLiquidity(suite.ctx, poolID, types.InitSharesSupply().QuoUint64(4))
	suite.Require().NoError(err)

	amounts, err := suite.keeper.RemoveLiquidity(suite.ctx, "pool-seeder", poolID, types.InitSharesSupply().QuoUint64(4), []math.Uint{math.NewUint(250), math.NewUint(1000)})
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(250), amounts[0].Uint64())
	suite.Require().Equal(uint64(1000), amounts[1].Uint64())
	suite.Require().True(predicted[0].Equal(amounts[0]))
	suite.Require().True(predicted[1].Equal(amounts[1]))

	suite.Require().Equal(uint64(250), suite.balance("pool-seeder", "usdc").Uint64())
	suite.Require().Equal(uint64(1000), suite.balance("pool-seeder", "wnear").Uint64())
	suite.requireReserves(poolID, 750, 3000)

	_, err = suite.keeper.RemoveLiquidity(suite.ctx, "mallory", poolID, math.NewUint(1), []math.Uint{math.ZeroUint(), math.ZeroUint()})
	suite.Require().ErrorIs(err, types.ErrNoShares)

	_, err = suite.keeper.RemoveLiquidity(suite.ctx, "pool-seeder", 42, math.NewUint(1), []math.Uint{math.ZeroUint(), math.ZeroUint()})
	suite.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (suite *KeeperTestSuite) TestShareRegistration() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)

	suite.Require().NoError(suite.keeper.RegisterShares(suite.ctx, poolID, "carol"))
	suite.Require().ErrorIs(suite.keeper.RegisterShares(suite.ctx, poolID, "carol"), types.ErrAlreadyRegistered)
	suite.Require().NoError(suite.keeper.UnregisterShares(suite.ctx, poolID, "carol"))
	suite.Require().ErrorIs(suite.keeper.UnregisterShares(suite.ctx, poolID, "pool-seeder"), types.ErrNonZeroShares)

	isLP, err := suite.keeper.IsLP(suite.ctx, poolID, "carol")
	suite.Require().NoError(err)
	suite.Require().False(isLP)
}

func (suite *KeeperTestSuite) TestGetPools() {
	for _, pair := range [][]string{{"a", "b"}, {"b", "c"}, {"c", "d"}} {
		_, err := suite.keeper.CreatePool(suite.ctx, "alice", pair, 30)
		suite.Require().NoError(err)
	}

	all, err := suite.keeper.GetPools(suite.ctx, 0, 0)
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)

	page, err := suite.keeper.GetPools(suite.ctx, 1, 1)
	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Require().Equal([]string{"b", "c"}, page[0].TokenAccountIDs)

	empty, err := suite.keeper.GetPools(suite.ctx, 5, 10)
	suite.Require().NoError(err)
	suite.Require().Empty(empty)
}

func (suite *KeeperTestSuite) TestParams() {
	params := suite.keeper.GetParams(suite.ctx)
	suite.Require().Equal(types.DefaultParams(), params)

	params.ReferralFee = 10
	suite.Require().NoError(suite.keeper.SetParams(suite.ctx, params))
	suite.Require().Equal(uint32(10), suite.keeper.GetParams(suite.ctx).ReferralFee)

	params.ExchangeAccount = ""
	suite.Require().ErrorIs(suite.keeper.SetParams(suite.ctx, params), types.ErrInvalidParams)
}
