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

package commission_test

import (
	"testing"

	"code.vegaprotocol.io/vaults/core/commission"
	"code.vegaprotocol.io/vaults/libs/config/encoding"
	"code.vegaprotocol.io/vaults/libs/num"
	"code.vegaprotocol.io/vaults/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg commission.Config) *commission.Engine {
	t.Helper()
	e, err := commission.New(logging.NewTestLogger(), cfg)
	require.NoError(t, err)
	return e
}

func TestNewEngineRejectsInvalidConfiguration(t *testing.T) {
	cfg := commission.NewDefaultConfig()
	cfg.BuilderSplitBps = 3_000
	_, err := commission.New(logging.NewTestLogger(), cfg)
	assert.ErrorIs(t, err, commission.ErrInvalidSplitConfiguration)

	cfg = commission.NewDefaultConfig()
	cfg.Policy = "everything-to-me"
	_, err = commission.New(logging.NewTestLogger(), cfg)
	assert.ErrorIs(t, err, commission.ErrUnknownPolicy)

	cfg = commission.NewDefaultConfig()
	cfg.TreasuryParty = ""
	_, err = commission.New(logging.NewTestLogger(), cfg)
	assert.ErrorIs(t, err, commission.ErrMissingTreasury)
}

func TestEngineSplit(t *testing.T) {
	e := newTestEngine(t, commission.NewDefaultConfig())

	d, err := e.Split(num.NewUint(1_000), "builder")
	require.NoError(t, err)
	assert.Equal(t, "650", d.Protocol.String())
	assert.Equal(t, "350", d.Builder.String())
	assert.Equal(t, commission.NetworkParty, d.Treasury)
	assert.Equal(t, "builder", d.BuilderParty)
	assert.True(t, d.HasBuilder())
}

func TestEngineSplitWithoutBuilder(t *testing.T) {
	e := newTestEngine(t, commission.NewDefaultConfig())

	d, err := e.Split(num.NewUint(1_001), "")
	require.NoError(t, err)
	assert.Equal(t, "1001", d.Protocol.String())
	assert.True(t, d.Builder.IsZero())
	assert.True(t, d.Residual.IsZero())
	assert.False(t, d.HasBuilder())
}

func TestEngineSplitInvalidFee(t *testing.T) {
	e := newTestEngine(t, commission.NewDefaultConfig())

	_, err := e.Split(nil, "builder")
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)
	_, err = e.Split(num.UintZero(), "builder")
	assert.ErrorIs(t, err, commission.ErrInvalidAmount)
}

func TestEngineUpdateSplitKeepsLastValid(t *testing.T) {
	e := newTestEngine(t, commission.NewDefaultConfig())

	require.NoError(t, e.UpdateSplit(8_000, 2_000))
	assert.ErrorIs(t, e.UpdateSplit(6_500, 3_000), commission.ErrInvalidSplitConfiguration)

	policy, protocol, builder := e.SplitConfiguration()
	assert.Equal(t, commission.PolicyExactComplement, policy)
	assert.Equal(t, uint64(8_000), protocol)
	assert.Equal(t, uint64(2_000), builder)

	d, err := e.Split(num.NewUint(1_000), "builder")
	require.NoError(t, err)
	assert.Equal(t, "800", d.Protocol.String())
	assert.Equal(t, "200", d.Builder.String())
}

func TestEngineResidualPolicy(t *testing.T) {
	cfg := commission.NewDefaultConfig()
	cfg.Policy = commission.PolicyResidualToProtocol.String()
	cfg.BuilderSplitBps = 2_500
	e := newTestEngine(t, cfg)

	d, err := e.Split(num.NewUint(1_000), "builder")
	require.NoError(t, err)
	assert.Equal(t, "750", d.Protocol.String())
	assert.Equal(t, "250", d.Builder.String())
	assert.Equal(t, "100", d.Residual.String())
}

func TestEngineReloadConf(t *testing.T) {
	e := newTestEngine(t, commission.NewDefaultConfig())

	cfg := commission.NewDefaultConfig()
	cfg.Level = encoding.LogLevel{Level: logging.DebugLevel}
	cfg.TreasuryParty = "treasury"
	e.ReloadConf(cfg)

	assert.Equal(t, "treasury", e.Treasury())
	policy, protocol, builder := e.SplitConfiguration()
	assert.Equal(t, commission.PolicyExactComplement, policy)
	assert.Equal(t, uint64(6_500), protocol)
	assert.Equal(t, uint64(3_500), builder)

	// a missing treasury is ignored
	cfg.TreasuryParty = ""
	e.ReloadConf(cfg)
	assert.Equal(t, "treasury", e.Treasury())
}

func TestEngineReloadConfKeepsUpdatedSplit(t *testing.T) {
	e := newTestEngine(t, commission.NewDefaultConfig())
	require.NoError(t, e.UpdateSplit(8_000, 2_000))

	cfg := commission.NewDefaultConfig()
	cfg.Level = encoding.LogLevel{Level: logging.DebugLevel}
	e.ReloadConf(cfg)

	_, protocol, builder := e.SplitConfiguration()
	assert.Equal(t, uint64(8_000), protocol)
	assert.Equal(t, uint64(2_000), builder)

	d, err := e.Split(num.NewUint(1_000), "builder")
	require.NoError(t, err)
	assert.Equal(t, "800", d.Protocol.String())
	assert.Equal(t, "200", d.Builder.String())
}

func TestEngineReloadConfPolicy(t *testing.T) {
	cfg := commission.NewDefaultConfig()
	cfg.Policy = commission.PolicyResidualToProtocol.String()
	cfg.BuilderSplitBps = 2_500
	e := newTestEngine(t, cfg)

	// 6500/2500 does not cover the whole commission, exact complement is refused
	cfg.Policy = commission.PolicyExactComplement.String()
	e.ReloadConf(cfg)
	policy, _, _ := e.SplitConfiguration()
	assert.Equal(t, commission.PolicyResidualToProtocol, policy)

	require.NoError(t, e.UpdateSplit(6_500, 3_500))
	e.ReloadConf(cfg)
	policy, protocol, builder := e.SplitConfiguration()
	assert.Equal(t, commission.PolicyExactComplement, policy)
	assert.Equal(t, uint64(6_500), protocol)
	assert.Equal(t, uint64(3_500), builder)
}
