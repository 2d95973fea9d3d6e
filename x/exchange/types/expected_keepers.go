package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DepositKeeper holds the per-account token balances the exchange trades
// against. Withdraw must fail without side effects when the balance is short.
type DepositKeeper interface {
	Deposit(ctx sdk.Context, account, token string, amount math.Uint) error
	Withdraw(ctx sdk.Context, account, token string, amount math.Uint) error
}
