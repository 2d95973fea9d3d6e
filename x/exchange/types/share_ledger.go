package types

import (
	"encoding/json"
	"sort"

	"cosmossdk.io/math"

	"github.com/forbitswap/exchange/pkg/bigmath"
)

// ShareLedger records the pool shares held by each account. The sum of all
// balances always equals the total supply. Accounts may stay registered with
// a zero balance.
type ShareLedger struct {
	balances    map[string]math.Uint
	totalSupply math.Uint
}

func NewShareLedger() *ShareLedger {
	return &ShareLedger{
		balances:    make(map[string]math.Uint),
		totalSupply: math.ZeroUint(),
	}
}

// TotalSupply returns the number of shares in existence.
func (l *ShareLedger) TotalSupply() math.Uint {
	return l.totalSupply
}

// IsRegistered reports whether account has an entry, possibly with zero balance.
func (l *ShareLedger) IsRegistered(account string) bool {
	_, ok := l.balances[account]
	return ok
}

// BalanceOf returns the shares held by account, zero when it has no entry.
func (l *ShareLedger) BalanceOf(account string) math.Uint {
	if bal, ok := l.balances[account]; ok {
		return bal
	}
	return math.ZeroUint()
}

// Register creates a zero-balance entry for account.
func (l *ShareLedger) Register(account string) error {
	if account == "" {
		return ErrInvalidAccount.Wrap("empty account id")
	}
	if l.IsRegistered(account) {
		return ErrAlreadyRegistered.Wrap(account)
	}
	l.balances[account] = math.ZeroUint()
	return nil
}

// Unregister drops the entry of account. Only zero balances can be dropped.
func (l *ShareLedger) Unregister(account string) error {
	bal, ok := l.balances[account]
	if !ok {
		return ErrNoShares.Wrap(account)
	}
	if !bal.IsZero() {
		return ErrNonZeroShares.Wrapf("%s holds %s", account, bal)
	}
	delete(l.balances, account)
	return nil
}

// Mint credits amount new shares to account, creating its entry if needed.
func (l *ShareLedger) Mint(account string, amount math.Uint) error {
	if account == "" {
		return ErrInvalidAccount.Wrap("empty account id")
	}
	if amount.IsNil() {
		return ErrZeroShares
	}
	supply := l.totalSupply.Add(amount)
	if !bigmath.IsU128(supply) {
		return ErrBalanceOverflow.Wrapf("share supply %s", supply)
	}
	l.mint(account, amount)
	return nil
}

// mint credits without bound checks; callers have validated the new supply.
func (l *ShareLedger) mint(account string, amount math.Uint) {
	l.balances[account] = l.BalanceOf(account).Add(amount)
	l.totalSupply = l.totalSupply.Add(amount)
}

// Burn destroys amount shares held by account.
func (l *ShareLedger) Burn(account string, amount math.Uint) error {
	if err := l.checkBurn(account, amount); err != nil {
		return err
	}
	l.burn(account, amount)
	return nil
}

func (l *ShareLedger) checkBurn(account string, amount math.Uint) error {
	if amount.IsNil() {
		return ErrZeroShares
	}
	bal, ok := l.balances[account]
	if !ok {
		return ErrNoShares.Wrap(account)
	}
	if bal.LT(amount) {
		return ErrNotEnoughShares.Wrapf("%s holds %s, needs %s", account, bal, amount)
	}
	return nil
}

func (l *ShareLedger) burn(account string, amount math.Uint) {
	l.balances[account] = l.balances[account].Sub(amount)
	l.totalSupply = l.totalSupply.Sub(amount)
}

// Holders returns every registered account in lexicographic order.
func (l *ShareLedger) Holders() []string {
	holders := make([]string, 0, len(l.balances))
	for account := range l.balances {
		holders = append(holders, account)
	}
	sort.Strings(holders)
	return holders
}

// Validate checks that the balances add up to the total supply.
func (l *ShareLedger) Validate() error {
	sum := math.ZeroUint()
	for account, bal := range l.balances {
		if account == "" {
			return ErrInvalidAccount.Wrap("empty account id in share ledger")
		}
		if !bigmath.IsU128(bal) {
			return ErrBalanceOverflow.Wrapf("balance of %s", account)
		}
		sum = sum.Add(bal)
	}
	if !sum.Equal(l.totalSupply) {
		return ErrInvalidGenesis.Wrapf("share balances sum to %s, total supply is %s", sum, l.totalSupply)
	}
	return nil
}

// Clone returns a deep copy of the ledger.
func (l *ShareLedger) Clone() *ShareLedger {
	c := &ShareLedger{
		balances:    make(map[string]math.Uint, len(l.balances)),
		totalSupply: l.totalSupply,
	}
	for account, bal := range l.balances {
		c.balances[account] = bal
	}
	return c
}

// ShareHolding is the JSON form of one ledger entry.
type ShareHolding struct {
	Account string    `json:"account"`
	Balance math.Uint `json:"balance"`
}

type shareLedgerJSON struct {
	TotalSupply math.Uint      `json:"total_supply"`
	Holdings    []ShareHolding `json:"holdings"`
}

// MarshalJSON encodes the ledger with holders sorted for deterministic output.
func (l *ShareLedger) MarshalJSON() ([]byte, error) {
	out := shareLedgerJSON{
		TotalSupply: l.totalSupply,
		Holdings:    make([]ShareHolding, 0, len(l.balances)),
	}
	for _, account := range l.Holders() {
		out.Holdings = append(out.Holdings, ShareHolding{Account: account, Balance: l.balances[account]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a ledger.
func (l *ShareLedger) UnmarshalJSON(bz []byte) error {
	var in shareLedgerJSON
	if err := json.Unmarshal(bz, &in); err != nil {
		return err
	}
	decoded := NewShareLedger()
	if !in.TotalSupply.IsNil() {
		decoded.totalSupply = in.TotalSupply
	}
	for _, h := range in.Holdings {
		if decoded.IsRegistered(h.Account) {
			return ErrAlreadyRegistered.Wrapf("duplicate holding for %s", h.Account)
		}
		bal := h.Balance
		if bal.IsNil() {
			bal = math.ZeroUint()
		}
		decoded.balances[h.Account] = bal
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*l = *decoded
	return nil
}
