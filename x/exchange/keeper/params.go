package keeper

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/x/exchange/types"
)

// GetParams returns the current exchange params, or the defaults when none
// have been stored yet.
func (k Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		panic(fmt.Sprintf("corrupted exchange params: %v", err))
	}
	return params
}

// SetParams validates and stores params.
func (k Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute("exchange_fee", fmt.Sprintf("%d", params.ExchangeFee)),
			sdk.NewAttribute("referral_fee", fmt.Sprintf("%d", params.ReferralFee)),
			sdk.NewAttribute("exchange_account", params.ExchangeAccount),
		),
	)
	return nil
}
