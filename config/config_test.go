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

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"code.vegaprotocol.io/vaults/config"
	"code.vegaprotocol.io/vaults/core/commission"
	"code.vegaprotocol.io/vaults/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead(t *testing.T) {
	root := t.TempDir()

	exists, err := config.Exists(root)
	require.NoError(t, err)
	assert.False(t, exists)

	cfg := config.NewDefaultConfig()
	require.NoError(t, config.Write(root, &cfg))

	exists, err = config.Exists(root)
	require.NoError(t, err)
	assert.True(t, exists)

	read, err := config.Read(root)
	require.NoError(t, err)
	assert.Equal(t, cfg, *read)
}

func TestReadOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	content := `
[Logging]
  Level = "debug"

[Vault]
  Level = "warning"
  MaxAssets = "1000000"

[Commission]
  Policy = "residual-to-protocol"
  BuilderSplitBps = 2500
`
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(content), 0o600))

	cfg, err := config.Read(root)
	require.NoError(t, err)
	require.NotNil(t, cfg.Logging.Level)
	assert.Equal(t, logging.DebugLevel, *cfg.Logging.Level)
	assert.Equal(t, logging.WarnLevel, cfg.Vault.Level.Get())
	assert.Equal(t, "1000000", cfg.Vault.MaxAssets.Get().String())
	assert.Equal(t, "1000000", cfg.Vault.VirtualShares.Get().String())
	assert.Equal(t, commission.PolicyResidualToProtocol.String(), cfg.Commission.Policy)
	assert.Equal(t, uint64(6_500), cfg.Commission.ProtocolSplitBps)
	assert.Equal(t, uint64(2_500), cfg.Commission.BuilderSplitBps)
}

func TestReadInvalidFile(t *testing.T) {
	root := t.TempDir()
	_, err := config.Read(root)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte(`[Vault]
  MaxAssets = "-1"
`), 0o600))
	_, err = config.Read(root)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.NewDefaultConfig()
	rest, err := config.ApplyFlags(&cfg, []string{
		"--commission.builder-split-bps=3000",
		"--commission.protocol-split-bps=7000",
		"--vault.max-assets=42",
		"--logging.level=debug",
		"leftover",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"leftover"}, rest)
	assert.Equal(t, uint64(3_000), cfg.Commission.BuilderSplitBps)
	assert.Equal(t, uint64(7_000), cfg.Commission.ProtocolSplitBps)
	assert.Equal(t, "42", cfg.Vault.MaxAssets.Get().String())
	require.NotNil(t, cfg.Logging.Level)
	assert.Equal(t, logging.DebugLevel, *cfg.Logging.Level)

	_, err = config.ApplyFlags(&cfg, []string{"--commission.policy=everything-to-me"})
	assert.Error(t, err)
}

func TestWatcherNotifiesListeners(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	cfg := config.NewDefaultConfig()
	require.NoError(t, config.Write(root, &cfg))

	w, err := config.NewWatcher(ctx, logging.NewTestLogger(), root)
	require.NoError(t, err)
	assert.Equal(t, uint64(3_500), w.Get().Commission.BuilderSplitBps)

	var (
		mu   sync.Mutex
		last config.Config
	)
	w.OnConfigUpdate(func(c config.Config) {
		mu.Lock()
		defer mu.Unlock()
		last = c
	})

	cfg.Commission.ProtocolSplitBps = 8_000
	cfg.Commission.BuilderSplitBps = 2_000
	require.NoError(t, config.Write(root, &cfg))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last.Commission.BuilderSplitBps == 2_000
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, uint64(8_000), w.Get().Commission.ProtocolSplitBps)
}
