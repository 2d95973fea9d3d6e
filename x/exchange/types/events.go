package types

// Event types for the exchange module
const (
	EventTypeCreatePool      = "create_pool"
	EventTypeAddLiquidity    = "add_liquidity"
	EventTypeRemoveLiquidity = "remove_liquidity"
	EventTypeSwap            = "swap"
	EventTypeRegisterShares  = "register_shares"
	EventTypeUnregister      = "unregister_shares"
	EventTypeParamsUpdated   = "params_updated"

	AttributeKeyPoolID    = "pool_id"
	AttributeKeyAccount   = "account"
	AttributeKeyTokens    = "tokens"
	AttributeKeyFee       = "fee"
	AttributeKeyAmounts   = "amounts"
	AttributeKeyShares    = "shares"
	AttributeKeyTokenIn   = "token_in"
	AttributeKeyTokenOut  = "token_out"
	AttributeKeyAmountIn  = "amount_in"
	AttributeKeyAmountOut = "amount_out"
	AttributeKeyReferral  = "referral"
)
