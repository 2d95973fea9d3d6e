package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/forbitswap/exchange/pkg/bigmath"
	"github.com/forbitswap/exchange/x/escrow/types"
)

// Keeper tracks the token balances accounts have deposited with the exchange.
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new escrow Keeper instance
func NewKeeper(key storetypes.StoreKey) *Keeper {
	return &Keeper{storeKey: key}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetBalance returns the deposit of token held by account.
func (k Keeper) GetBalance(ctx sdk.Context, account, token string) math.Uint {
	if types.ValidateAccount(account) != nil {
		return math.ZeroUint()
	}
	bz := ctx.KVStore(k.storeKey).Get(types.GetBalanceKey(account, token))
	if bz == nil {
		return math.ZeroUint()
	}
	var amount math.Uint
	if err := amount.Unmarshal(bz); err != nil {
		panic(fmt.Sprintf("corrupted deposit of %s/%s: %v", account, token, err))
	}
	return amount
}

func (k Keeper) setBalance(ctx sdk.Context, account, token string, amount math.Uint) error {
	store := ctx.KVStore(k.storeKey)
	key := types.GetBalanceKey(account, token)
	if amount.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := amount.Marshal()
	if err != nil {
		return err
	}
	store.Set(key, bz)
	return nil
}

// GetBalances returns every non-zero deposit of account keyed by token.
func (k Keeper) GetBalances(ctx sdk.Context, account string) (map[string]math.Uint, error) {
	if err := types.ValidateAccount(account); err != nil {
		return nil, err
	}
	store := prefix.NewStore(ctx.KVStore(k.storeKey), types.AccountBalancesPrefix(account))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	balances := make(map[string]math.Uint)
	for ; iterator.Valid(); iterator.Next() {
		var amount math.Uint
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return nil, err
		}
		balances[string(iterator.Key())] = amount
	}
	return balances, nil
}

// Deposit credits amount of token to account.
func (k Keeper) Deposit(ctx sdk.Context, account, token string, amount math.Uint) error {
	if err := validate(account, token, amount); err != nil {
		return err
	}
	balance := k.GetBalance(ctx, account, token).Add(amount)
	if !bigmath.IsU128(balance) {
		return types.ErrBalanceOverflow.Wrapf("%s/%s", account, token)
	}
	if err := k.setBalance(ctx, account, token, balance); err != nil {
		return err
	}
	k.Logger(ctx).Debug("deposit credited", "account", account, "token", token, "amount", amount.String())
	return nil
}

// Withdraw debits amount of token from account. A short balance is an error
// and leaves the deposit unchanged.
func (k Keeper) Withdraw(ctx sdk.Context, account, token string, amount math.Uint) error {
	if err := validate(account, token, amount); err != nil {
		return err
	}
	balance := k.GetBalance(ctx, account, token)
	if balance.LT(amount) {
		return types.ErrInsufficientDeposit.Wrapf("%s holds %s %s, needs %s", account, balance, token, amount)
	}
	if err := k.setBalance(ctx, account, token, balance.Sub(amount)); err != nil {
		return err
	}
	k.Logger(ctx).Debug("deposit debited", "account", account, "token", token, "amount", amount.String())
	return nil
}

func validate(account, token string, amount math.Uint) error {
	if err := types.ValidateAccount(account); err != nil {
		return err
	}
	if token == "" {
		return types.ErrInvalidToken.Wrap("empty token id")
	}
	if amount.IsNil() || amount.IsZero() {
		return types.ErrZeroAmount
	}
	if !bigmath.IsU128(amount) {
		return types.ErrBalanceOverflow.Wrapf("amount %s", amount)
	}
	return nil
}

// InitGenesis loads deposits from genesis.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return err
	}
	for _, b := range genState.Balances {
		if err := k.setBalance(ctx, b.Account, b.Token, b.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis returns every stored deposit.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	iterator := storetypes.KVStorePrefixIterator(ctx.KVStore(k.storeKey), types.BalanceKeyPrefix)
	defer iterator.Close()

	gs := types.DefaultGenesis()
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(types.BalanceKeyPrefix):]
		accountLen := int(key[0])
		var amount math.Uint
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return nil, err
		}
		gs.Balances = append(gs.Balances, types.Balance{
			Account: string(key[1 : 1+accountLen]),
			Token:   string(key[1+accountLen:]),
			Amount:  amount,
		})
	}
	return gs, nil
}
