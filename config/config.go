//lint:file-ignore SA5008 duplicated struct tags are ok for config

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

package config

import (
	"os"
	"path/filepath"

	"code.vegaprotocol.io/vaults/core/collateral"
	"code.vegaprotocol.io/vaults/core/commission"
	"code.vegaprotocol.io/vaults/core/vault"
	"code.vegaprotocol.io/vaults/logging"
	"code.vegaprotocol.io/vaults/metrics"

	"github.com/BurntSushi/toml"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// FileName is the name of the configuration file in the root path.
const FileName = "config.toml"

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config    `group:"Logging" namespace:"logging"`
	Vault      vault.Config      `group:"Vault" namespace:"vault"`
	Commission commission.Config `group:"Commission" namespace:"commission"`
	Collateral collateral.Config `group:"Collateral" namespace:"collateral"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all packages, as specified at the per package
// config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:    logging.NewDefaultConfig(),
		Vault:      vault.NewDefaultConfig(),
		Commission: commission.NewDefaultConfig(),
		Collateral: collateral.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
	}
}

// Read loads the configuration file from the root path on top of the defaults.
func Read(rootPath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := decodeFile(filepath.Join(rootPath, FileName), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write saves the configuration file in the root path, creating the
// directory if needed.
func Write(rootPath string, cfg *Config) error {
	if err := os.MkdirAll(rootPath, 0o700); err != nil {
		return errors.Wrap(err, "couldn't create configuration directory")
	}
	f, err := os.Create(filepath.Join(rootPath, FileName))
	if err != nil {
		return errors.Wrap(err, "couldn't create configuration file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(err, "couldn't encode configuration")
	}
	return nil
}

// Exists tells whether a configuration file is present in the root path.
func Exists(rootPath string) (bool, error) {
	_, err := os.Stat(filepath.Join(rootPath, FileName))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ApplyFlags overrides the configuration with command line flags such as
// --commission.builder-split-bps=2500, and returns the arguments left.
func ApplyFlags(cfg *Config, args []string) ([]string, error) {
	rest, err := flags.NewParser(cfg, flags.IgnoreUnknown).ParseArgs(args)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse configuration flags")
	}
	return rest, nil
}

func decodeFile(path string, cfg *Config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "couldn't read configuration file at %s", path)
	}
	if _, err := toml.Decode(string(buf), cfg); err != nil {
		return errors.Wrapf(err, "couldn't decode configuration file at %s", path)
	}
	return nil
}
