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
	"github.com/holiman/uint256"
)

// Rounding is the direction applied to the remainder of a division.
type Rounding int

const (
	// RoundDown truncates the quotient (floor).
	RoundDown Rounding = iota
	// RoundUp adds one to the quotient whenever the division leaves a remainder (ceiling).
	RoundUp
)

func (r Rounding) String() string {
	switch r {
	case RoundDown:
		return "down"
	case RoundUp:
		return "up"
	default:
		return "unknown"
	}
}

// MulDiv computes x * y / d with a 512 bits intermediate product, applying
// the given rounding to the quotient.
// True is returned if the result does not fit in 256 bits, or if d is zero,
// in which case the returned value is zero.
func MulDiv(x, y, d *Uint, r Rounding) (*Uint, bool) {
	if d.IsZero() {
		return UintZero(), true
	}

	z := UintZero()
	if _, overflow := z.u.MulDivOverflow(&x.u, &y.u, &d.u); overflow {
		return UintZero(), true
	}

	if r == RoundUp {
		var rem uint256.Int
		if !rem.MulMod(&x.u, &y.u, &d.u).IsZero() {
			if _, overflow := z.u.AddOverflow(&z.u, uint256.NewInt(1)); overflow {
				return UintZero(), true
			}
		}
	}
	return z, false
}

// MulDivFloor is floor(x * y / d).
func MulDivFloor(x, y, d *Uint) (*Uint, bool) {
	return MulDiv(x, y, d, RoundDown)
}

// MulDivCeil is ceil(x * y / d).
func MulDivCeil(x, y, d *Uint) (*Uint, bool) {
	return MulDiv(x, y, d, RoundUp)
}
