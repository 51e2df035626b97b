// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package num

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var maxU = new(uint256.Int).SetAllOne()

// Uint is a 256 bits unsigned integer, all amounts handled
// by the vaults are expressed with it.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the
// uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

func UintZero() *Uint {
	return NewUint(0)
}

func UintOne() *Uint {
	return NewUint(1)
}

// MaxUint returns 2^256 - 1.
func MaxUint() *Uint {
	return &Uint{*maxU}
}

// Pow2Minus1 returns 2^n - 1, n is capped at 256.
func Pow2Minus1(n uint) *Uint {
	if n >= 256 {
		return MaxUint()
	}
	z := UintOne()
	z.u.Lsh(&z.u, n)
	z.u.Sub(&z.u, uint256.NewInt(1))
	return z
}

// Min returns the smallest of the 2 numbers.
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a
	}
	return b
}

// Max returns the largest of the 2 numbers.
func Max(a, b *Uint) *Uint {
	if a.GT(b) {
		return a
	}
	return b
}

// UintFromBig construct a new Uint with a big.Int
// returns true if overflow happened, negative values
// are treated as an overflow as well.
func UintFromBig(b *big.Int) (*Uint, bool) {
	if b.Sign() < 0 {
		return UintZero(), true
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// UintFromString created a new Uint from a string
// interpreted using the give base.
// will return true if an error/overflow happened.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString is meant to be used in tests and
// default configurations only.
func MustUintFromString(str string) *Uint {
	u, overflow := UintFromString(str, 10)
	if overflow {
		panic(fmt.Sprintf("invalid uint: %q", str))
	}
	return u
}

func UintFromDecimal(d Decimal) (*Uint, bool) {
	return UintFromBig(d.BigInt())
}

func (u *Uint) ToDecimal() Decimal {
	return DecimalFromUint(u)
}

// Sum is equivalent to x + y + z.
func Sum(vals ...*Uint) *Uint {
	return UintZero().AddSum(vals...)
}

func (z *Uint) Set(oth *Uint) *Uint {
	z.u.Set(&oth.u)
	return z
}

func (z *Uint) SetUint64(val uint64) *Uint {
	z.u.SetUint64(val)
	return z
}

func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

// IsUint64 reports whether the value fits in a uint64.
func (z Uint) IsUint64() bool {
	return z.u.IsUint64()
}

func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

func (z Uint) Float64() float64 {
	d := DecimalFromUint(&z)
	retVal, _ := d.Float64()
	return retVal
}

// Add is equivalent to `z = x + y`, wrapping on overflow.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds multiple values at the same time to a given uint
// so x.AddSum(y, z) is equivalent to x + y + z.
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// AddOverflow is equivalent to `z = x + y`.
// True is returned if an overflow occurred.
func (z *Uint) AddOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.AddOverflow(&x.u, &y.u)
	return z, overflow
}

// Sub is equivalent to `z = x - y`, wrapping on underflow.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// SubOverflow is equivalent to `z = x - y`.
// True is returned if an underflow occurred.
func (z *Uint) SubOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.SubOverflow(&x.u, &y.u)
	return z, overflow
}

// Delta will subtract y from x and store the result
// unless x-y overflowed, in which case true is returned
// and the result of y - x is set instead.
func (z *Uint) Delta(x, y *Uint) (*Uint, bool) {
	if y.GT(x) {
		_ = z.Sub(y, x)
		return z, true
	}
	_ = z.Sub(x, y)
	return z, false
}

// Mul is equivalent to `z = x * y`, wrapping on overflow.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// MulOverflow is equivalent to `z = x * y`.
// True is returned if an overflow occurred.
func (z *Uint) MulOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.MulOverflow(&x.u, &y.u)
	return z, overflow
}

// Div is equivalent to `z = x / y`, z is 0 when y is 0.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

// Mod is equivalent to `z = x % y`, z is 0 when y is 0.
func (z *Uint) Mod(x, y *Uint) *Uint {
	z.u.Mod(&x.u, &y.u)
	return z
}

func (u Uint) LT(oth *Uint) bool {
	return u.u.Lt(&oth.u)
}

func (u Uint) LTE(oth *Uint) bool {
	return !u.u.Gt(&oth.u)
}

func (u Uint) EQ(oth *Uint) bool {
	return u.u.Eq(&oth.u)
}

func (u Uint) EQUint64(oth uint64) bool {
	return u.u.Eq(uint256.NewInt(oth))
}

func (u Uint) NEQ(oth *Uint) bool {
	return !u.u.Eq(&oth.u)
}

func (u Uint) GT(oth *Uint) bool {
	return u.u.Gt(&oth.u)
}

func (u Uint) GTUint64(oth uint64) bool {
	return u.u.GtUint64(oth)
}

func (u Uint) GTE(oth *Uint) bool {
	return !u.u.Lt(&oth.u)
}

// IsZero return whether u == 0 or not.
func (u Uint) IsZero() bool {
	return u.u.IsZero()
}

// Copy is equivalent to `z = x`.
func (z *Uint) Copy(x *Uint) *Uint {
	z.u = x.u
	return z
}

// Clone create copy of this value.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

// String returns the stored value as a base 10 string.
func (u Uint) String() string {
	return u.u.ToBig().String()
}

// Format implement fmt.Formatter.
func (u Uint) Format(s fmt.State, ch rune) {
	u.u.Format(s, ch)
}

// Bytes return the internal representation
// of the Uint as [32]bytes, BigEndian encoded.
func (u Uint) Bytes() [32]byte {
	return u.u.Bytes32()
}

func (u Uint) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Uint) UnmarshalText(text []byte) error {
	v, overflow := UintFromString(string(text), 10)
	if overflow {
		return fmt.Errorf("invalid 256 bits unsigned integer: %q", string(text))
	}
	u.u = v.u
	return nil
}
