package types

import (
	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	"github.com/forbitswap/exchange/pkg/bigmath"
)

// SimplePool is a two asset constant product pool. Reserves stay zero until
// the first deposit and are both positive while any share exists.
//
// Every mutating method validates and computes its full effect before
// touching state, so a returned error leaves the pool unchanged.
type SimplePool struct {
	TokenAccountIDs [NumTokens]string     `json:"token_account_ids"`
	Amounts         [NumTokens]math.Uint  `json:"amounts"`
	Volumes         [NumTokens]SwapVolume `json:"volumes"`
	TotalFee        uint32                `json:"total_fee"`
	Shares          *ShareLedger          `json:"shares"`
}

// NewSimplePool creates an empty pool for two distinct tokens.
func NewSimplePool(tokens []string, fee uint32) (*SimplePool, error) {
	if fee >= FeeDivisor {
		return nil, ErrFeeTooLarge.Wrapf("fee %d, divisor %d", fee, FeeDivisor)
	}
	if len(tokens) != NumTokens {
		return nil, ErrWrongTokenCount.Wrapf("got %d tokens, want %d", len(tokens), NumTokens)
	}
	if tokens[0] == "" || tokens[1] == "" {
		return nil, ErrInvalidToken.Wrap("empty token id")
	}
	if tokens[0] == tokens[1] {
		return nil, ErrDuplicateTokens.Wrap(tokens[0])
	}

	p := &SimplePool{
		TokenAccountIDs: [NumTokens]string{tokens[0], tokens[1]},
		TotalFee:        fee,
		Shares:          NewShareLedger(),
	}
	for i := range p.Amounts {
		p.Amounts[i] = math.ZeroUint()
		p.Volumes[i] = NewSwapVolume()
	}
	return p, nil
}

func (p *SimplePool) Tokens() []string {
	return []string{p.TokenAccountIDs[0], p.TokenAccountIDs[1]}
}

func (p *SimplePool) Reserves() []math.Uint {
	return []math.Uint{p.Amounts[0], p.Amounts[1]}
}

func (p *SimplePool) GetFee() uint32 { return p.TotalFee }

func (p *SimplePool) ShareDecimals() uint8 { return ShareDecimals }

func (p *SimplePool) GetVolumes() []SwapVolume {
	return []SwapVolume{p.Volumes[0], p.Volumes[1]}
}

func (p *SimplePool) ShareTotalBalance() math.Uint { return p.Shares.TotalSupply() }

func (p *SimplePool) ShareBalanceOf(account string) math.Uint { return p.Shares.BalanceOf(account) }

func (p *SimplePool) ShareIsRegistered(account string) bool { return p.Shares.IsRegistered(account) }

func (p *SimplePool) ShareRegister(account string) error { return p.Shares.Register(account) }

func (p *SimplePool) ShareUnregister(account string) error { return p.Shares.Unregister(account) }

// TokenIndex returns the position of token in the pool.
func (p *SimplePool) TokenIndex(token string) (int, error) {
	for i, t := range p.TokenAccountIDs {
		if t == token {
			return i, nil
		}
	}
	return 0, ErrMissingToken.Wrap(token)
}

// AddLiquidity deposits amounts and mints shares to sender. The first deposit
// into an empty pool sets the price and mints InitSharesSupply. Later deposits
// are taken at the current ratio: only the largest proportional part of
// amounts is consumed and amounts is rewritten in place with the consumed
// values.
func (p *SimplePool) AddLiquidity(sender string, amounts []math.Uint) (math.Uint, error) {
	if sender == "" {
		return math.ZeroUint(), ErrInvalidAccount.Wrap("empty sender")
	}
	if len(amounts) != NumTokens {
		return math.ZeroUint(), ErrWrongTokenCount.Wrapf("got %d amounts, want %d", len(amounts), NumTokens)
	}
	for i, amount := range amounts {
		if !bigmath.IsU128(amount) {
			return math.ZeroUint(), ErrBalanceOverflow.Wrapf("amount of %s", p.TokenAccountIDs[i])
		}
		if amount.IsZero() {
			return math.ZeroUint(), ErrZeroAmount.Wrapf("amount of %s", p.TokenAccountIDs[i])
		}
	}

	totalSupply := bigmath.FromUint(p.Shares.TotalSupply())

	var (
		minted   math.Uint
		consumed [NumTokens]math.Uint
	)
	if totalSupply.IsZero() {
		minted = InitSharesSupply()
		consumed = [NumTokens]math.Uint{amounts[0], amounts[1]}
	} else {
		fairSupply := new(uint256.Int).SetAllOne()
		for i := range amounts {
			candidate, err := bigmath.MulDiv(bigmath.FromUint(amounts[i]), totalSupply, bigmath.FromUint(p.Amounts[i]))
			if err != nil {
				return math.ZeroUint(), err
			}
			fairSupply = bigmath.Min(fairSupply, candidate)
		}
		if fairSupply.IsZero() {
			return math.ZeroUint(), ErrZeroShares.Wrap("deposit too small for current pool ratio")
		}

		for i := range amounts {
			amount, err := bigmath.MulDiv(bigmath.FromUint(p.Amounts[i]), fairSupply, totalSupply)
			if err != nil {
				return math.ZeroUint(), err
			}
			if amount.IsZero() {
				return math.ZeroUint(), ErrZeroAmount.Wrapf("deposit of %s rounds to zero", p.TokenAccountIDs[i])
			}
			// amount <= amounts[i], so it fits.
			consumed[i] = bigmath.MustToUint(amount)
		}

		var err error
		minted, err = bigmath.ToUint(fairSupply)
		if err != nil {
			return math.ZeroUint(), ErrBalanceOverflow.Wrap("minted shares")
		}
	}

	var newAmounts [NumTokens]math.Uint
	for i := range consumed {
		newAmounts[i] = p.Amounts[i].Add(consumed[i])
		if !bigmath.IsU128(newAmounts[i]) {
			return math.ZeroUint(), ErrBalanceOverflow.Wrapf("reserve of %s", p.TokenAccountIDs[i])
		}
	}
	if !bigmath.IsU128(p.Shares.TotalSupply().Add(minted)) {
		return math.ZeroUint(), ErrBalanceOverflow.Wrap("share supply")
	}

	p.Amounts = newAmounts
	copy(amounts, consumed[:])
	p.Shares.mint(sender, minted)
	return minted, nil
}

// RemoveLiquidity burns shares of sender and returns the proportional part of
// each reserve. The sender stays registered even when its balance drops to zero.
func (p *SimplePool) RemoveLiquidity(sender string, shares math.Uint, minAmounts []math.Uint) ([]math.Uint, error) {
	if len(minAmounts) != NumTokens {
		return nil, ErrWrongTokenCount.Wrapf("got %d min amounts, want %d", len(minAmounts), NumTokens)
	}
	if shares.IsNil() || shares.IsZero() {
		return nil, ErrZeroShares
	}
	if err := p.Shares.checkBurn(sender, shares); err != nil {
		return nil, err
	}

	amounts, err := p.proportionalAmounts(shares)
	if err != nil {
		return nil, err
	}
	for i, amount := range amounts {
		if minAmounts[i].IsNil() {
			continue
		}
		if amount.LT(minAmounts[i]) {
			return nil, ErrMinAmount.Wrapf("%s: got %s, min %s", p.TokenAccountIDs[i], amount, minAmounts[i])
		}
	}

	for i, amount := range amounts {
		p.Amounts[i] = p.Amounts[i].Sub(amount)
	}
	p.Shares.burn(sender, shares)
	return amounts, nil
}

// PredictRemoveLiquidity returns what RemoveLiquidity would pay out for shares.
func (p *SimplePool) PredictRemoveLiquidity(shares math.Uint) ([]math.Uint, error) {
	if shares.IsNil() || shares.IsZero() {
		return nil, ErrZeroShares
	}
	if shares.GT(p.Shares.TotalSupply()) {
		return nil, ErrNotEnoughShares.Wrapf("%s exceeds total supply %s", shares, p.Shares.TotalSupply())
	}
	return p.proportionalAmounts(shares)
}

func (p *SimplePool) proportionalAmounts(shares math.Uint) ([]math.Uint, error) {
	totalSupply := bigmath.FromUint(p.Shares.TotalSupply())
	amounts := make([]math.Uint, NumTokens)
	for i := range p.Amounts {
		amount, err := bigmath.MulDiv(bigmath.FromUint(p.Amounts[i]), bigmath.FromUint(shares), totalSupply)
		if err != nil {
			return nil, err
		}
		// shares <= total supply, so amount <= reserve.
		amounts[i] = bigmath.MustToUint(amount)
	}
	return amounts, nil
}

// GetReturn quotes the output of swapping amountIn of tokenIn for tokenOut
// without changing the pool.
func (p *SimplePool) GetReturn(tokenIn string, amountIn math.Uint, tokenOut string) (math.Uint, error) {
	in, out, err := p.swapIndices(tokenIn, tokenOut)
	if err != nil {
		return math.ZeroUint(), err
	}
	if !bigmath.IsU128(amountIn) {
		return math.ZeroUint(), ErrBalanceOverflow.Wrap("amount in")
	}
	amountOut, err := p.computeReturn(in, out, amountIn)
	if err != nil {
		return math.ZeroUint(), err
	}
	return bigmath.MustToUint(amountOut), nil
}

// Swap trades amountIn of tokenIn for at least minAmountOut of tokenOut. The
// growth of sqrt(x*y) is turned into new shares for the fee recipients in
// fees. The referral recipient is skipped unless already registered.
func (p *SimplePool) Swap(tokenIn string, amountIn math.Uint, tokenOut string, minAmountOut math.Uint, fees FeePolicy) (math.Uint, error) {
	in, out, err := p.swapIndices(tokenIn, tokenOut)
	if err != nil {
		return math.ZeroUint(), err
	}
	if !bigmath.IsU128(amountIn) {
		return math.ZeroUint(), ErrBalanceOverflow.Wrap("amount in")
	}
	if amountIn.IsZero() {
		return math.ZeroUint(), ErrZeroAmount.Wrap("amount in")
	}
	if err := fees.Validate(); err != nil {
		return math.ZeroUint(), err
	}

	amountOut, err := p.computeReturn(in, out, amountIn)
	if err != nil {
		return math.ZeroUint(), err
	}
	amountOutU := bigmath.MustToUint(amountOut)
	if !minAmountOut.IsNil() && amountOutU.LT(minAmountOut) {
		return math.ZeroUint(), ErrMinAmount.Wrapf("got %s, min %s", amountOutU, minAmountOut)
	}

	x := bigmath.FromUint(p.Amounts[in])
	y := bigmath.FromUint(p.Amounts[out])
	newX := new(uint256.Int).Add(x, bigmath.FromUint(amountIn))
	if newX.BitLen() > bigmath.U128Bits {
		return math.ZeroUint(), ErrBalanceOverflow.Wrapf("reserve of %s", tokenIn)
	}
	newY, err := bigmath.Sub(y, amountOut)
	if err != nil {
		return math.ZeroUint(), err
	}

	// Both factors are below 2^128, so the products fit in a word.
	prevInvariant := bigmath.Sqrt(new(uint256.Int).Mul(x, y))
	newInvariant := bigmath.Sqrt(new(uint256.Int).Mul(newX, newY))
	if newInvariant.Lt(prevInvariant) {
		return math.ZeroUint(), ErrInvariantViolation.Wrapf("sqrt(x*y) went from %s to %s", prevInvariant.Dec(), newInvariant.Dec())
	}

	protocolShares, referralShares, err := p.feeShares(prevInvariant, newInvariant, fees)
	if err != nil {
		return math.ZeroUint(), err
	}
	newSupply := p.Shares.TotalSupply().Add(protocolShares).Add(referralShares)
	if !bigmath.IsU128(newSupply) {
		return math.ZeroUint(), ErrBalanceOverflow.Wrap("share supply")
	}

	p.Amounts[in] = bigmath.MustToUint(newX)
	p.Amounts[out] = bigmath.MustToUint(newY)
	if !protocolShares.IsZero() {
		p.Shares.mint(fees.ProtocolRecipient, protocolShares)
	}
	if !referralShares.IsZero() {
		p.Shares.mint(fees.ReferralRecipient, referralShares)
	}
	p.Volumes[in] = p.Volumes[in].Record(amountIn, amountOutU)
	return amountOutU, nil
}

// feeShares converts the invariant growth of a swap into shares. Both cuts use
// the supply from before either is minted.
func (p *SimplePool) feeShares(prevInvariant, newInvariant *uint256.Int, fees FeePolicy) (protocol, referral math.Uint, err error) {
	protocol, referral = math.ZeroUint(), math.ZeroUint()

	growth := new(uint256.Int).Sub(newInvariant, prevInvariant)
	numerator, err := bigmath.Mul(growth, bigmath.FromUint(p.Shares.TotalSupply()))
	if err != nil {
		return protocol, referral, err
	}
	if numerator.IsZero() {
		return protocol, referral, nil
	}

	if fees.ProtocolFee > 0 {
		protocol, err = sharesForCut(numerator, newInvariant, fees.ProtocolFee)
		if err != nil {
			return protocol, referral, err
		}
	}
	if fees.HasReferral() && fees.ReferralFee > 0 && p.Shares.IsRegistered(fees.ReferralRecipient) {
		referral, err = sharesForCut(numerator, newInvariant, fees.ReferralFee)
		if err != nil {
			return protocol, referral, err
		}
	}
	return protocol, referral, nil
}

// sharesForCut computes numerator / (invariant * FeeDivisor / fee).
func sharesForCut(numerator, invariant *uint256.Int, fee uint32) (math.Uint, error) {
	denominator, err := bigmath.MulDiv(invariant, uint256.NewInt(uint64(FeeDivisor)), uint256.NewInt(uint64(fee)))
	if err != nil {
		return math.ZeroUint(), err
	}
	shares, err := bigmath.Div(numerator, denominator)
	if err != nil {
		return math.ZeroUint(), err
	}
	u, err := bigmath.ToUint(shares)
	if err != nil {
		return math.ZeroUint(), ErrBalanceOverflow.Wrap("fee shares")
	}
	return u, nil
}

func (p *SimplePool) swapIndices(tokenIn, tokenOut string) (int, int, error) {
	if tokenIn == tokenOut {
		return 0, 0, ErrSameToken.Wrap(tokenIn)
	}
	in, err := p.TokenIndex(tokenIn)
	if err != nil {
		return 0, 0, err
	}
	out, err := p.TokenIndex(tokenOut)
	if err != nil {
		return 0, 0, err
	}
	return in, out, nil
}

// computeReturn evaluates
//
//	out = amountIn*(D-fee)*y / (D*x + amountIn*(D-fee))
//
// with D = FeeDivisor.
func (p *SimplePool) computeReturn(in, out int, amountIn math.Uint) (*uint256.Int, error) {
	x := bigmath.FromUint(p.Amounts[in])
	y := bigmath.FromUint(p.Amounts[out])
	if x.IsZero() || y.IsZero() {
		return nil, ErrEmptyReserves
	}

	divisor := uint256.NewInt(uint64(FeeDivisor))
	amountWithFee, err := bigmath.Mul(bigmath.FromUint(amountIn), uint256.NewInt(uint64(FeeDivisor-p.TotalFee)))
	if err != nil {
		return nil, err
	}
	scaledX, err := bigmath.Mul(divisor, x)
	if err != nil {
		return nil, err
	}
	denominator, err := bigmath.Add(scaledX, amountWithFee)
	if err != nil {
		return nil, err
	}
	return bigmath.MulDiv(amountWithFee, y, denominator)
}

// Validate checks the structural invariants of a decoded pool.
func (p *SimplePool) Validate() error {
	if p.TotalFee >= FeeDivisor {
		return ErrFeeTooLarge.Wrapf("fee %d", p.TotalFee)
	}
	if p.TokenAccountIDs[0] == "" || p.TokenAccountIDs[1] == "" {
		return ErrInvalidToken.Wrap("empty token id")
	}
	if p.TokenAccountIDs[0] == p.TokenAccountIDs[1] {
		return ErrDuplicateTokens.Wrap(p.TokenAccountIDs[0])
	}
	if p.Shares == nil {
		return ErrInvalidGenesis.Wrap("missing share ledger")
	}
	if err := p.Shares.Validate(); err != nil {
		return err
	}
	for i, amount := range p.Amounts {
		if !bigmath.IsU128(amount) {
			return ErrBalanceOverflow.Wrapf("reserve of %s", p.TokenAccountIDs[i])
		}
		if !p.Shares.TotalSupply().IsZero() && amount.IsZero() {
			return ErrEmptyReserves.Wrapf("reserve of %s is zero with %s shares outstanding", p.TokenAccountIDs[i], p.Shares.TotalSupply())
		}
	}
	for i, v := range p.Volumes {
		if v.Input.IsNil() || v.Output.IsNil() {
			return ErrInvalidGenesis.Wrapf("missing volume for %s", p.TokenAccountIDs[i])
		}
	}
	return nil
}

// Clone returns a deep copy of the pool.
func (p *SimplePool) Clone() *SimplePool {
	c := *p
	c.Shares = p.Shares.Clone()
	return &c
}
