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
	"fmt"
	"math/big"
	"testing"

	"code.vegaprotocol.io/vaults/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintConstructors(t *testing.T) {
	var expected uint64 = 42

	t.Run("from uint64", func(t *testing.T) {
		n := num.NewUint(expected)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("from string", func(t *testing.T) {
		n, overflow := num.UintFromString("42", 10)
		assert.False(t, overflow)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("from invalid string", func(t *testing.T) {
		n, overflow := num.UintFromString("forty two", 10)
		assert.True(t, overflow)
		assert.True(t, n.IsZero())
	})

	t.Run("from big", func(t *testing.T) {
		n, overflow := num.UintFromBig(big.NewInt(int64(expected)))
		assert.False(t, overflow)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("from negative big", func(t *testing.T) {
		_, overflow := num.UintFromBig(big.NewInt(-1))
		assert.True(t, overflow)
	})

	t.Run("from too large big", func(t *testing.T) {
		b := new(big.Int).Lsh(big.NewInt(1), 256)
		_, overflow := num.UintFromBig(b)
		assert.True(t, overflow)
	})
}

func TestUintClone(t *testing.T) {
	first := num.NewUint(42)
	second := first.Clone()

	second.Add(second, num.NewUint(42))

	assert.Equal(t, uint64(42), first.Uint64())
	assert.Equal(t, uint64(84), second.Uint64())
}

func TestUintOverflowingArithmetic(t *testing.T) {
	_, overflow := num.UintZero().AddOverflow(num.MaxUint(), num.UintOne())
	assert.True(t, overflow)

	_, overflow = num.UintZero().SubOverflow(num.UintZero(), num.UintOne())
	assert.True(t, overflow)

	_, overflow = num.UintZero().MulOverflow(num.MaxUint(), num.NewUint(2))
	assert.True(t, overflow)

	res, overflow := num.UintZero().AddOverflow(num.NewUint(40), num.NewUint(2))
	assert.False(t, overflow)
	assert.Equal(t, "42", res.String())
}

func TestUintDelta(t *testing.T) {
	d, neg := num.UintZero().Delta(num.NewUint(10), num.NewUint(15))
	assert.True(t, neg)
	assert.Equal(t, uint64(5), d.Uint64())

	d, neg = num.UintZero().Delta(num.NewUint(15), num.NewUint(10))
	assert.False(t, neg)
	assert.Equal(t, uint64(5), d.Uint64())
}

func TestPow2Minus1(t *testing.T) {
	assert.Equal(t, uint64(255), num.Pow2Minus1(8).Uint64())
	assert.Equal(t, "20282409603651670423947251286015", num.Pow2Minus1(104).String())
	assert.True(t, num.Pow2Minus1(256).EQ(num.MaxUint()))
}

func TestUintText(t *testing.T) {
	n := num.MustUintFromString("1000000000000000000000")
	txt, err := n.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000", string(txt))

	back := num.UintZero()
	require.NoError(t, back.UnmarshalText(txt))
	assert.True(t, back.EQ(n))

	assert.Error(t, back.UnmarshalText([]byte("-1")))
	assert.Equal(t, "42", fmt.Sprintf("%v", num.NewUint(42)))
}
