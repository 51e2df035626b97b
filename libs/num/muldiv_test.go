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

package num_test

import (
	"math/big"
	"math/rand"
	"testing"

	"code.vegaprotocol.io/vaults/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	cases := []struct {
		name        string
		x, y, d     *num.Uint
		floor, ceil string
	}{
		{
			name:  "exact division",
			x:     num.NewUint(10),
			y:     num.NewUint(10),
			d:     num.NewUint(5),
			floor: "20",
			ceil:  "20",
		},
		{
			name:  "with remainder",
			x:     num.NewUint(1),
			y:     num.NewUint(1),
			d:     num.NewUint(2),
			floor: "0",
			ceil:  "1",
		},
		{
			name:  "zero numerator",
			x:     num.UintZero(),
			y:     num.NewUint(7),
			d:     num.NewUint(3),
			floor: "0",
			ceil:  "0",
		},
		{
			name:  "512 bits intermediate product",
			x:     num.MaxUint(),
			y:     num.MaxUint(),
			d:     num.MaxUint(),
			floor: num.MaxUint().String(),
			ceil:  num.MaxUint().String(),
		},
		{
			name:  "large share supply",
			x:     num.NewUint(1),
			y:     num.MustUintFromString("3000000000000000000"),
			d:     num.NewUint(2),
			floor: "1500000000000000000",
			ceil:  "1500000000000000000",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			floor, overflow := num.MulDivFloor(c.x, c.y, c.d)
			require.False(t, overflow)
			assert.Equal(t, c.floor, floor.String())

			ceil, overflow := num.MulDivCeil(c.x, c.y, c.d)
			require.False(t, overflow)
			assert.Equal(t, c.ceil, ceil.String())
		})
	}
}

func TestMulDivOverflow(t *testing.T) {
	t.Run("quotient does not fit", func(t *testing.T) {
		_, overflow := num.MulDivFloor(num.MaxUint(), num.NewUint(2), num.UintOne())
		assert.True(t, overflow)
	})

	t.Run("ceiling does not fit", func(t *testing.T) {
		// with m = 2^256-1: (m-1)^2 / (m-2) = m + 1/(m-2)
		x := num.UintZero().Sub(num.MaxUint(), num.UintOne())
		d := num.UintZero().Sub(num.MaxUint(), num.NewUint(2))
		floor, overflow := num.MulDivFloor(x, x, d)
		require.False(t, overflow)
		assert.True(t, floor.EQ(num.MaxUint()))

		_, overflow = num.MulDivCeil(x, x, d)
		assert.True(t, overflow)
	})

	t.Run("zero denominator", func(t *testing.T) {
		res, overflow := num.MulDivCeil(num.NewUint(1), num.NewUint(1), num.UintZero())
		assert.True(t, overflow)
		assert.True(t, res.IsZero())
	})
}

func TestMulDivMatchesBigInt(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		x := num.NewUint(r.Uint64())
		y := num.UintZero().Mul(num.NewUint(r.Uint64()), num.NewUint(r.Uint64()))
		d := num.NewUint(r.Uint64()%1_000_000 + 1)

		prod := new(big.Int).Mul(x.BigInt(), y.BigInt())
		q, m := new(big.Int).QuoRem(prod, d.BigInt(), new(big.Int))

		floor, overflow := num.MulDivFloor(x, y, d)
		if q.BitLen() > 256 {
			assert.True(t, overflow)
			continue
		}
		require.False(t, overflow)
		assert.Equal(t, q.String(), floor.String())

		ceil, _ := num.MulDivCeil(x, y, d)
		if m.Sign() != 0 {
			q.Add(q, big.NewInt(1))
		}
		assert.Equal(t, q.String(), ceil.String())
		assert.True(t, ceil.GTE(floor))
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, "0.5", num.Ratio(num.NewUint(1), num.NewUint(2), 6).String())
	assert.Equal(t, "0.333333", num.Ratio(num.NewUint(1), num.NewUint(3), 6).String())
	assert.Equal(t, "0.199999", num.Ratio(num.NewUint(1999999), num.NewUint(10000000), 6).String())
	assert.True(t, num.Ratio(num.NewUint(1), num.UintZero(), 6).IsZero())
}

func TestCmpRatio(t *testing.T) {
	assert.Equal(t, 0, num.CmpRatio(num.NewUint(1), num.NewUint(2), num.NewUint(2), num.NewUint(4)))
	assert.Equal(t, -1, num.CmpRatio(num.NewUint(1), num.NewUint(3), num.NewUint(1), num.NewUint(2)))
	assert.Equal(t, 1, num.CmpRatio(num.MaxUint(), num.NewUint(1), num.MaxUint(), num.NewUint(2)))
}
