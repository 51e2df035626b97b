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

package collateral_test

import (
	"context"
	"testing"

	"code.vegaprotocol.io/vaults/core/collateral"
	"code.vegaprotocol.io/vaults/core/collateral/mocks"
	"code.vegaprotocol.io/vaults/core/commission"
	"code.vegaprotocol.io/vaults/core/vault"
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	*collateral.Engine
	ctrl     *gomock.Controller
	params   *mocks.MockRiskParameters
	splitter *commission.Engine
	vault    *vault.Vault
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	params := mocks.NewMockRiskParameters(ctrl)

	log := logging.NewTestLogger()
	splitter, err := commission.New(log, commission.NewDefaultConfig())
	require.NoError(t, err)

	v, err := vault.New(log, vault.NewDefaultConfig(), "USDC")
	require.NoError(t, err)

	conf := collateral.NewDefaultConfig()
	conf.Level = encoding.LogLevel{Level: logging.DebugLevel}
	e := collateral.New(log, conf, splitter, params)
	require.NoError(t, e.AddVault(v))

	return &testEngine{
		Engine:   e,
		ctrl:     ctrl,
		params:   params,
		splitter: splitter,
		vault:    v,
	}
}

func (e *testEngine) deposit(t *testing.T, party string, assets uint64) *num.Uint {
	t.Helper()
	shares, err := e.vault.Deposit(num.NewUint(assets), party)
	require.NoError(t, err)
	return shares
}

func TestChargeCommissionWithBuilder(t *testing.T) {
	e := newTestEngine(t)
	shares := e.deposit(t, "alice", 1_000)

	e.params.EXPECT().BuilderRecipient().Times(1).Return("builder", true)
	d, err := e.ChargeCommission(context.Background(), "USDC", "alice", num.NewUint(1_000))
	require.NoError(t, err)
	assert.Equal(t, "650", d.Protocol.String())
	assert.Equal(t, "350", d.Builder.String())

	assert.Equal(t, num.UintZero().Sub(shares, num.NewUint(1_000)).String(), e.vault.BalanceOf("alice").String())
	assert.Equal(t, "650", e.vault.BalanceOf(commission.NetworkParty).String())
	assert.Equal(t, "350", e.vault.BalanceOf("builder").String())
}

func TestChargeCommissionWithoutBuilder(t *testing.T) {
	e := newTestEngine(t)
	e.deposit(t, "alice", 1_000)
	supply := e.vault.TotalSupply()

	e.params.EXPECT().BuilderRecipient().Times(1).Return("", false)
	d, err := e.ChargeCommission(context.Background(), "USDC", "alice", num.NewUint(999))
	require.NoError(t, err)
	assert.Equal(t, "999", d.Protocol.String())
	assert.True(t, d.Builder.IsZero())
	assert.Equal(t, "999", e.vault.BalanceOf(commission.NetworkParty).String())
	// commissions only move shares around
	assert.True(t, supply.EQ(e.vault.TotalSupply()))
}

func TestChargeCommissionIsAtomic(t *testing.T) {
	e := newTestEngine(t)
	shares := e.deposit(t, "alice", 1)

	e.params.EXPECT().BuilderRecipient().Times(1).Return("builder", true)
	fee := num.Sum(shares, num.NewUint(1))
	_, err := e.ChargeCommission(context.Background(), "USDC", "alice", fee)
	assert.ErrorIs(t, err, vault.ErrInsufficientShares)

	assert.True(t, shares.EQ(e.vault.BalanceOf("alice")))
	assert.True(t, e.vault.BalanceOf(commission.NetworkParty).IsZero())
	assert.True(t, e.vault.BalanceOf("builder").IsZero())
}

func TestChargeCommissionInvalidRequests(t *testing.T) {
	e := newTestEngine(t)
	e.deposit(t, "alice", 1_000)
	ctx := context.Background()

	_, err := e.ChargeCommission(ctx, "USDC", "", num.NewUint(10))
	assert.ErrorIs(t, err, collateral.ErrMissingPayer)

	_, err = e.ChargeCommission(ctx, "BTC", "alice", num.NewUint(10))
	assert.ErrorIs(t, err, collateral.ErrVaultNotFound)

	e.params.EXPECT().BuilderRecipient().Times(1).Return("builder", true)
	_, err = e.ChargeCommission(ctx, "USDC", "alice", num.UintZero())
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.ChargeCommission(cctx, "USDC", "alice", num.NewUint(10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddVaultTwice(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.AddVault(e.vault), collateral.ErrVaultAlreadyExists)
}

func TestOnRiskParametersUpdate(t *testing.T) {
	e := newTestEngine(t)
	e.deposit(t, "alice", 1_000)
	ctx := context.Background()

	e.params.EXPECT().CommissionSplit().Times(1).Return(uint64(8_000), uint64(2_000))
	require.NoError(t, e.OnRiskParametersUpdate(ctx))

	// 6500 + 3000 does not add up, the previous split stays in use
	e.params.EXPECT().CommissionSplit().Times(1).Return(uint64(6_500), uint64(3_000))
	assert.ErrorIs(t, e.OnRiskParametersUpdate(ctx), commission.ErrInvalidSplitConfiguration)

	e.params.EXPECT().BuilderRecipient().Times(1).Return("builder", true)
	d, err := e.ChargeCommission(ctx, "USDC", "alice", num.NewUint(1_000))
	require.NoError(t, err)
	assert.Equal(t, "800", d.Protocol.String())
	assert.Equal(t, "200", d.Builder.String())
}

func TestReloadConfWhileCharging(t *testing.T) {
	e := newTestEngine(t)
	e.deposit(t, "alice", 1_000)
	e.params.EXPECT().BuilderRecipient().AnyTimes().Return("builder", true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, err := e.ChargeCommission(context.Background(), "USDC", "alice", num.NewUint(20))
			assert.NoError(t, err)
		}
	}()

	conf := collateral.NewDefaultConfig()
	for i := 0; i < 100; i++ {
		conf.Level = encoding.LogLevel{Level: logging.InfoLevel}
		if i%2 == 0 {
			conf.Level = encoding.LogLevel{Level: logging.DebugLevel}
		}
		e.ReloadConf(conf)
	}
	<-done

	assert.Equal(t, "650", e.vault.BalanceOf(commission.NetworkParty).String())
	assert.Equal(t, "350", e.vault.BalanceOf("builder").String())
}
