package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "escrow"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// BalanceKeyPrefix prefixes every account/token balance.
var BalanceKeyPrefix = []byte{0x01}

// AccountBalancesPrefix returns the prefix under which all balances of account
// are stored.
func AccountBalancesPrefix(account string) []byte {
	return append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix([]byte(account))...)
}

// GetBalanceKey returns the store key of one account/token balance.
func GetBalanceKey(account, token string) []byte {
	return append(AccountBalancesPrefix(account), []byte(token)...)
}

// Escrow module sentinel errors
var (
	ErrInsufficientDeposit = errors.Register(ModuleName, 2, "insufficient deposit")
	ErrZeroAmount          = errors.Register(ModuleName, 3, "amount cannot be zero")
	ErrInvalidAccount      = errors.Register(ModuleName, 4, "invalid account id")
	ErrInvalidToken        = errors.Register(ModuleName, 5, "invalid token id")
	ErrBalanceOverflow     = errors.Register(ModuleName, 6, "deposit exceeds 128 bits")
)

// Balance is one account's deposit of one token.
type Balance struct {
	Account string    `json:"account"`
	Token   string    `json:"token"`
	Amount  math.Uint `json:"amount"`
}

// GenesisState holds every non-zero deposit.
type GenesisState struct {
	Balances []Balance `json:"balances"`
}

// DefaultGenesis returns an empty escrow genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// ValidateAccount checks an account id fits the key encoding.
func ValidateAccount(account string) error {
	if account == "" || len(account) > address.MaxAddrLen {
		return ErrInvalidAccount.Wrapf("account id %q", account)
	}
	return nil
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for _, b := range gs.Balances {
		if err := ValidateAccount(b.Account); err != nil {
			return err
		}
		if b.Token == "" {
			return fmt.Errorf("empty token for account %s", b.Account)
		}
		if b.Amount.IsNil() {
			return fmt.Errorf("missing amount for %s/%s", b.Account, b.Token)
		}
		key := string(GetBalanceKey(b.Account, b.Token))
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate balance for %s/%s", b.Account, b.Token)
		}
		seen[key] = struct{}{}
	}
	return nil
}
