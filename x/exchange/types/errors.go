package types

import (
	"cosmossdk.io/errors"
)

// Exchange module sentinel errors
var (
	ErrWrongTokenCount    = errors.Register(ModuleName, 2, "wrong number of tokens")
	ErrZeroAmount         = errors.Register(ModuleName, 3, "amount cannot be zero")
	ErrZeroShares         = errors.Register(ModuleName, 4, "shares cannot be zero")
	ErrMissingToken       = errors.Register(ModuleName, 5, "token not in pool")
	ErrSameToken          = errors.Register(ModuleName, 6, "cannot swap token for itself")
	ErrDuplicateTokens    = errors.Register(ModuleName, 7, "pool tokens must be distinct")
	ErrInvalidToken       = errors.Register(ModuleName, 8, "invalid token id")
	ErrFeeTooLarge        = errors.Register(ModuleName, 9, "fee must be below fee divisor")
	ErrMinAmount          = errors.Register(ModuleName, 10, "amount below requested minimum")
	ErrNoShares           = errors.Register(ModuleName, 11, "account has no shares")
	ErrNotEnoughShares    = errors.Register(ModuleName, 12, "not enough shares")
	ErrNonZeroShares      = errors.Register(ModuleName, 13, "account still holds shares")
	ErrAlreadyRegistered  = errors.Register(ModuleName, 14, "account already registered")
	ErrInvariantViolation = errors.Register(ModuleName, 15, "pool invariant decreased")
	ErrEmptyReserves      = errors.Register(ModuleName, 16, "pool has no liquidity")
	ErrBalanceOverflow    = errors.Register(ModuleName, 17, "balance exceeds 128 bits")
	ErrPoolNotFound       = errors.Register(ModuleName, 18, "pool not found")
	ErrPoolAlreadyExists  = errors.Register(ModuleName, 19, "pool already exists")
	ErrInvalidParams      = errors.Register(ModuleName, 20, "invalid params")
	ErrInvalidGenesis     = errors.Register(ModuleName, 21, "invalid genesis state")
	ErrEmptyActions       = errors.Register(ModuleName, 22, "no swap actions")
	ErrUnknownPoolKind    = errors.Register(ModuleName, 23, "unknown pool kind")
	ErrInvalidAccount     = errors.Register(ModuleName, 24, "invalid account id")
)
