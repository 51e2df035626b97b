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

package vault_test

import (
	"testing"

	"code.vegaprotocol.io/vaults/core/vault"
	"code.vegaprotocol.io/vaults/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransfers(t *testing.T) {
	newVault := func(t *testing.T) *vault.Vault {
		t.Helper()
		return newTestVaultFromState(t, num.NewUint(100), nil, num.NewUint(1000), map[string]*num.Uint{
			"alice": num.NewUint(500),
			"bob":   num.NewUint(100),
		})
	}

	t.Run("moves shares without touching totals", func(t *testing.T) {
		v := newVault(t)
		err := v.ApplyTransfers([]*vault.Transfer{
			{From: "alice", To: "carol", Shares: num.NewUint(200)},
			{From: "carol", To: "bob", Shares: num.NewUint(50)},
			{From: "bob", To: "alice", Shares: num.UintZero()},
		})
		require.NoError(t, err)

		assert.Equal(t, "300", v.BalanceOf("alice").String())
		assert.Equal(t, "150", v.BalanceOf("bob").String())
		assert.Equal(t, "150", v.BalanceOf("carol").String())
		assert.Equal(t, "1000", v.TotalSupply().String())
		assert.Equal(t, "100", v.TotalAssets().String())
	})

	t.Run("nothing is applied when one transfer fails", func(t *testing.T) {
		v := newVault(t)
		err := v.ApplyTransfers([]*vault.Transfer{
			{From: "alice", To: "carol", Shares: num.NewUint(200)},
			{From: "bob", To: "carol", Shares: num.NewUint(150)},
		})
		assert.ErrorIs(t, err, vault.ErrInsufficientShares)

		assert.Equal(t, "500", v.BalanceOf("alice").String())
		assert.Equal(t, "100", v.BalanceOf("bob").String())
		assert.True(t, v.BalanceOf("carol").IsZero())
	})

	t.Run("invalid transfers", func(t *testing.T) {
		v := newVault(t)
		assert.ErrorIs(t, v.ApplyTransfers([]*vault.Transfer{{From: "alice", To: "bob"}}), vault.ErrInvalidAmount)
		assert.ErrorIs(t, v.ApplyTransfers([]*vault.Transfer{{From: "alice", Shares: num.NewUint(1)}}), vault.ErrMissingParty)
	})

	t.Run("emptied balances can be redeemed by the receiver", func(t *testing.T) {
		v := newVault(t)
		require.NoError(t, v.ApplyTransfers([]*vault.Transfer{
			{From: "bob", To: "alice", Shares: num.NewUint(100)},
		}))
		assert.True(t, v.BalanceOf("bob").IsZero())

		assets, err := v.Redeem(num.NewUint(600), "alice")
		require.NoError(t, err)
		assert.Equal(t, "60", assets.String())
	})
}
