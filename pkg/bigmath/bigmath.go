// Package bigmath provides the fixed-width integer arithmetic used by the
// exchange engine. Balances are 128-bit values carried as math.Uint; every
// intermediate product is computed on 256-bit words (512-bit for mul-div) so
// that no step can silently wrap.
package bigmath

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Codespace is the error codespace of this package.
const Codespace = "bigmath"

var (
	ErrOverflow       = errors.Register(Codespace, 2, "arithmetic overflow")
	ErrDivisionByZero = errors.Register(Codespace, 3, "division by zero")
	ErrNotU128        = errors.Register(Codespace, 4, "value does not fit in 128 bits")
	ErrUnderflow      = errors.Register(Codespace, 5, "arithmetic underflow")
)

// U128Bits is the width of a balance.
const U128Bits = 128

var maxU128 = new(uint256.Int).Sub(
	new(uint256.Int).Lsh(uint256.NewInt(1), U128Bits),
	uint256.NewInt(1),
)

// MaxU128 returns 2^128 - 1.
func MaxU128() math.Uint {
	return math.NewUintFromBigInt(maxU128.ToBig())
}

// IsU128 reports whether u is an initialized value that fits in 128 bits.
func IsU128(u math.Uint) bool {
	if u.IsNil() {
		return false
	}
	return u.BigIntMut().BitLen() <= U128Bits
}

// FromUint widens u to a 256-bit word. An uninitialized Uint is zero.
func FromUint(u math.Uint) *uint256.Int {
	if u.IsNil() {
		return new(uint256.Int)
	}
	// math.Uint is bounded to 256 bits, so this cannot overflow.
	return uint256.MustFromBig(u.BigIntMut())
}

// ToUint narrows x back to a 128-bit balance.
func ToUint(x *uint256.Int) (math.Uint, error) {
	if x.BitLen() > U128Bits {
		return math.ZeroUint(), ErrNotU128.Wrapf("%s", x.Dec())
	}
	return math.NewUintFromBigInt(x.ToBig()), nil
}

// MustToUint is ToUint for values already known to fit.
func MustToUint(x *uint256.Int) math.Uint {
	u, err := ToUint(x)
	if err != nil {
		panic(err)
	}
	return u
}

// Mul returns x*y or ErrOverflow when the product needs more than 256 bits.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow.Wrapf("%s * %s", x.Dec(), y.Dec())
	}
	return z, nil
}

// Add returns x+y or ErrOverflow.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow.Wrapf("%s + %s", x.Dec(), y.Dec())
	}
	return z, nil
}

// Sub returns x-y or ErrUnderflow when y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow.Wrapf("%s - %s", x.Dec(), y.Dec())
	}
	return z, nil
}

// Div returns floor(x/y).
func Div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

// MulDiv returns floor(x*y/d) using a 512-bit intermediate product. The
// result must fit in 256 bits.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow.Wrapf("%s * %s / %s", x.Dec(), y.Dec(), d.Dec())
	}
	return z, nil
}

// Sqrt returns floor(sqrt(x)) by Newton iteration.
func Sqrt(x *uint256.Int) *uint256.Int {
	if x.IsZero() {
		return new(uint256.Int)
	}

	// 2^ceil(bits/2) is never below the root, so the sequence decreases
	// monotonically until it reaches the floor.
	z := new(uint256.Int).Lsh(uint256.NewInt(1), uint((x.BitLen()+1)/2))
	y := new(uint256.Int)
	for {
		y.Div(x, z)
		y.Add(y, z)
		y.Rsh(y, 1)
		if !y.Lt(z) {
			return z
		}
		z.Set(y)
	}
}

// Min returns the smaller of x and y.
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x
	}
	return y
}
