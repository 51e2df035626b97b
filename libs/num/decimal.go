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
	"math/big"

	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

var (
	dzero = decimal.Zero
	d1    = decimal.NewFromInt(1)
)

func MustDecimalFromString(f string) Decimal {
	d, err := DecimalFromString(f)
	if err != nil {
		panic(err)
	}
	return d
}

func DecimalOne() Decimal {
	return d1
}

func DecimalZero() Decimal {
	return dzero
}

func NewDecimalFromBigInt(value *big.Int, exp int32) Decimal {
	return decimal.NewFromBigInt(value, exp)
}

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// Ratio returns a / b with the given number of decimal places,
// rounded down. A zero denominator yields zero.
func Ratio(a, b *Uint, places int32) Decimal {
	if b.IsZero() {
		return dzero
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	q := new(big.Int).Mul(a.BigInt(), scale)
	q.Quo(q, b.BigInt())
	return decimal.NewFromBigInt(q, -places)
}

// CmpRatio compares a/b with c/d without any loss of precision,
// returning -1, 0 or +1. Denominators must be non zero.
func CmpRatio(a, b, c, d *Uint) int {
	lhs := new(big.Int).Mul(a.BigInt(), d.BigInt())
	rhs := new(big.Int).Mul(c.BigInt(), b.BigInt())
	return lhs.Cmp(rhs)
}

func MaxD(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
