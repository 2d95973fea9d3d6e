package keeper_test

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	keepertest "github.com/forbitswap/exchange/testutil/keeper"
	escrowtypes "github.com/forbitswap/exchange/x/escrow/types"
	"github.com/forbitswap/exchange/x/exchange/keeper"
	"github.com/forbitswap/exchange/x/exchange/types"
)

func amountPtr(v uint64) *math.Uint {
	u := math.NewUint(v)
	return &u
}

func (suite *KeeperTestSuite) TestSwapSingleAction() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 100, "usdc")

	quote, err := suite.keeper.GetReturn(suite.ctx, poolID, "usdc", math.NewUint(100), "wnear")
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(90), quote.Uint64())

	out, err := suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
		{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(100), TokenOut: "wnear", MinAmountOut: math.NewUint(90)},
	}, "")
	suite.Require().NoError(err)
	suite.Require().True(out.Equal(quote))

	suite.Require().True(suite.balance("alice", "usdc").IsZero())
	suite.Require().Equal(uint64(90), suite.balance("alice", "wnear").Uint64())
	suite.requireReserves(poolID, 1100, 910)

	volumes, err := suite.keeper.GetVolumes(suite.ctx, poolID)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), volumes[0].Input.Uint64())
	suite.Require().Equal(uint64(90), volumes[0].Output.Uint64())
	suite.Require().True(volumes[1].Input.IsZero())

	events := suite.ctx.EventManager().Events()
	last := events[len(events)-1]
	suite.Require().Equal(types.EventTypeSwap, last.Type)
	amountOut, ok := last.GetAttribute(types.AttributeKeyAmountOut)
	suite.Require().True(ok)
	suite.Require().Equal("90", amountOut.Value)
}

func (suite *KeeperTestSuite) TestSwapMultiHopChainsOutput() {
	first := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1_000_000, 2_000_000)
	second := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "wnear", "dai", 3_000_000, 1_000_000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 10_000, "usdc")

	hop1, err := suite.keeper.GetReturn(suite.ctx, first, "usdc", math.NewUint(10_000), "wnear")
	suite.Require().NoError(err)
	hop2, err := suite.keeper.GetReturn(suite.ctx, second, "wnear", hop1, "dai")
	suite.Require().NoError(err)

	out, err := suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
		{PoolID: first, TokenIn: "usdc", AmountIn: amountPtr(10_000), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
		{PoolID: second, TokenIn: "wnear", TokenOut: "dai", MinAmountOut: math.ZeroUint()},
	}, "")
	suite.Require().NoError(err)
	suite.Require().True(out.Equal(hop2), "got %s, want %s", out, hop2)

	// The intermediate token passes through the deposit and is fully spent.
	suite.Require().True(suite.balance("alice", "wnear").IsZero())
	suite.Require().True(suite.balance("alice", "dai").Equal(hop2))
}

func (suite *KeeperTestSuite) TestSwapFailureRollsBackEarlierActions() {
	first := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1_000_000, 1_000_000)
	second := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "wnear", "dai", 1_000_000, 1_000_000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 10_000, "usdc")
	eventsBefore := len(suite.ctx.EventManager().Events())

	_, err := suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
		{PoolID: first, TokenIn: "usdc", AmountIn: amountPtr(10_000), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
		{PoolID: second, TokenIn: "wnear", TokenOut: "dai", MinAmountOut: math.NewUint(1_000_000)},
	}, "")
	suite.Require().ErrorIs(err, types.ErrMinAmount)

	suite.Require().Equal(uint64(10_000), suite.balance("alice", "usdc").Uint64())
	suite.Require().True(suite.balance("alice", "wnear").IsZero())
	suite.requireReserves(first, 1_000_000, 1_000_000)
	suite.requireReserves(second, 1_000_000, 1_000_000)
	suite.Require().Len(suite.ctx.EventManager().Events(), eventsBefore)
}

func (suite *KeeperTestSuite) TestSwapValidation() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 100, "usdc")

	tests := []struct {
		name    string
		actions []types.SwapAction
		wantErr error
	}{
		{
			name:    "empty actions",
			actions: nil,
			wantErr: types.ErrEmptyActions,
		},
		{
			name: "first action without amount",
			actions: []types.SwapAction{
				{PoolID: poolID, TokenIn: "usdc", TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
			},
			wantErr: types.ErrZeroAmount,
		},
		{
			name: "same token",
			actions: []types.SwapAction{
				{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(10), TokenOut: "usdc", MinAmountOut: math.ZeroUint()},
			},
			wantErr: types.ErrSameToken,
		},
		{
			name: "unknown pool",
			actions: []types.SwapAction{
				{PoolID: 9, TokenIn: "usdc", AmountIn: amountPtr(10), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
			},
			wantErr: types.ErrPoolNotFound,
		},
		{
			name: "token not in pool",
			actions: []types.SwapAction{
				{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(10), TokenOut: "dai", MinAmountOut: math.ZeroUint()},
			},
			wantErr: types.ErrMissingToken,
		},
		{
			name: "insufficient deposit",
			actions: []types.SwapAction{
				{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(101), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
			},
			wantErr: escrowtypes.ErrInsufficientDeposit,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.keeper.Swap(suite.ctx, "alice", tt.actions, "")
			suite.Require().ErrorIs(err, tt.wantErr)
			suite.Require().Equal(uint64(100), suite.balance("alice", "usdc").Uint64())
			suite.requireReserves(poolID, 1000, 1000)
		})
	}
}

func (suite *KeeperTestSuite) TestSwapMintsFeeShares() {
	params := suite.keeper.GetParams(suite.ctx)
	params.ReferralFee = 10
	suite.Require().NoError(suite.keeper.SetParams(suite.ctx, params))

	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1_000_000_000, 1_000_000_000)
	suite.Require().NoError(suite.keeper.RegisterShares(suite.ctx, poolID, "referrer"))
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 2_000_000, "usdc")

	swap := func(referral string) {
		_, err := suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
			{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(1_000_000), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
		}, referral)
		suite.Require().NoError(err)
	}

	swap("referrer")
	protocol, err := suite.keeper.GetShareBalance(suite.ctx, poolID, params.ExchangeAccount)
	suite.Require().NoError(err)
	referral, err := suite.keeper.GetShareBalance(suite.ctx, poolID, "referrer")
	suite.Require().NoError(err)
	suite.Require().False(protocol.IsZero())
	suite.Require().False(referral.IsZero())
	suite.Require().True(protocol.GT(referral))

	supply, err := suite.keeper.GetShareTotalSupply(suite.ctx, poolID)
	suite.Require().NoError(err)
	suite.Require().True(supply.Equal(types.InitSharesSupply().Add(protocol).Add(referral)))

	// A referrer without a share entry in the pool gets nothing.
	swap("stranger")
	isLP, err := suite.keeper.IsLP(suite.ctx, poolID, "stranger")
	suite.Require().NoError(err)
	suite.Require().False(isLP)

	msg, broken := keeper.AllInvariants(*suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestSwapMetrics() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 100, "usdc")
	m := keeper.NewExchangeMetrics()

	successBefore := promtestutil.ToFloat64(m.SwapsTotal.WithLabelValues("success"))
	failedBefore := promtestutil.ToFloat64(m.SwapsTotal.WithLabelValues("failed"))

	_, err := suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
		{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(50), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
	}, "")
	suite.Require().NoError(err)
	_, err = suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
		{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(500), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
	}, "")
	suite.Require().Error(err)

	suite.Require().Equal(successBefore+1, promtestutil.ToFloat64(m.SwapsTotal.WithLabelValues("success")))
	suite.Require().Equal(failedBefore+1, promtestutil.ToFloat64(m.SwapsTotal.WithLabelValues("failed")))
}

func (suite *KeeperTestSuite) TestLiquidityMetricsFollowCommittedState() {
	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 1000, "usdc", "wnear")
	m := keeper.NewExchangeMetrics()
	label := fmt.Sprintf("%d", poolID)

	suite.Require().Equal(float64(1000), promtestutil.ToFloat64(m.PoolReserves.WithLabelValues(label, "usdc")))

	_, _, err := suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(500)},
		[]math.Uint{math.NewUint(501), math.NewUint(501)},
	)
	suite.Require().ErrorIs(err, types.ErrMinAmount)
	suite.Require().Equal(float64(1000), promtestutil.ToFloat64(m.PoolReserves.WithLabelValues(label, "usdc")))

	_, _, err = suite.keeper.AddLiquidity(suite.ctx, "alice", poolID,
		[]math.Uint{math.NewUint(500), math.NewUint(500)}, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(float64(1500), promtestutil.ToFloat64(m.PoolReserves.WithLabelValues(label, "usdc")))

	half := types.InitSharesSupply().QuoUint64(2)
	_, err = suite.keeper.RemoveLiquidity(suite.ctx, "alice", poolID, half, []math.Uint{math.NewUint(501), math.ZeroUint()})
	suite.Require().ErrorIs(err, types.ErrMinAmount)
	suite.Require().Equal(float64(1500), promtestutil.ToFloat64(m.PoolReserves.WithLabelValues(label, "usdc")))

	_, err = suite.keeper.RemoveLiquidity(suite.ctx, "alice", poolID, half, make([]math.Uint, 2))
	suite.Require().NoError(err)
	suite.Require().Equal(float64(1000), promtestutil.ToFloat64(m.PoolReserves.WithLabelValues(label, "usdc")))
}

type recordingHooks struct {
	created []uint64
	changes []bool
	swaps   []math.Uint
	failOn  string
}

var errHookRejected = errors.New("rejected by hook")

func (h *recordingHooks) AfterPoolCreated(_ sdk.Context, poolID uint64, _ []string, _ string) error {
	h.created = append(h.created, poolID)
	return nil
}

func (h *recordingHooks) AfterLiquidityChanged(_ sdk.Context, _ uint64, _ string, _ []math.Uint, _ math.Uint, isAdd bool) error {
	h.changes = append(h.changes, isAdd)
	return nil
}

func (h *recordingHooks) AfterSwap(_ sdk.Context, _ uint64, account, _, _ string, _, amountOut math.Uint) error {
	if account == h.failOn {
		return errHookRejected
	}
	h.swaps = append(h.swaps, amountOut)
	return nil
}

func (suite *KeeperTestSuite) TestHooks() {
	hooks := &recordingHooks{failOn: "blocked"}
	suite.keeper.SetHooks(hooks)
	suite.Require().Panics(func() { suite.keeper.SetHooks(hooks) })

	poolID := keepertest.CreateTestPool(suite.T(), suite.keeper, suite.escrow, suite.ctx, "usdc", "wnear", 1000, 1000)
	suite.Require().Equal([]uint64{poolID}, hooks.created)
	suite.Require().Equal([]bool{true}, hooks.changes)

	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "alice", 100, "usdc")
	keepertest.FundAccount(suite.T(), suite.escrow, suite.ctx, "blocked", 100, "usdc")

	_, err := suite.keeper.Swap(suite.ctx, "alice", []types.SwapAction{
		{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(100), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
	}, "")
	suite.Require().NoError(err)
	suite.Require().Len(hooks.swaps, 1)
	suite.Require().Equal(uint64(90), hooks.swaps[0].Uint64())

	_, err = suite.keeper.Swap(suite.ctx, "blocked", []types.SwapAction{
		{PoolID: poolID, TokenIn: "usdc", AmountIn: amountPtr(100), TokenOut: "wnear", MinAmountOut: math.ZeroUint()},
	}, "")
	suite.Require().ErrorIs(err, errHookRejected)
	suite.Require().Equal(uint64(100), suite.balance("blocked", "usdc").Uint64())
	suite.requireReserves(poolID, 1100, 910)

	_, err = suite.keeper.RemoveLiquidity(suite.ctx, "pool-seeder", poolID, types.InitSharesSupply().QuoUint64(2), []math.Uint{math.ZeroUint(), math.ZeroUint()})
	suite.Require().NoError(err)
	suite.Require().Equal([]bool{true, false}, hooks.changes)
}
